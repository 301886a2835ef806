package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"remindr/internal/todo"
)

func newAddCmd(app *App) *cobra.Command {
	var title, description, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			dueAt, err := todo.ParseDue(due, time.Local)
			if err != nil {
				return err
			}
			draft, err := todo.NewDraft(title, description, dueAt)
			if err != nil {
				return err
			}
			client, err := app.client(cfg)
			if err != nil {
				return err
			}
			created, err := client.Create(context.Background(), draft)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(created)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date, "+todo.InputLayout+" in local time")
	return cmd
}
