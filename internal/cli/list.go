package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"remindr/internal/tasks"
	"remindr/internal/todo"
)

func newListCmd(app *App) *cobra.Command {
	var view, filter, sortOrder, search, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tasks a view would show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			q := cfg.Query()
			if cmd.Flags().Changed("view") {
				if q.View, err = tasks.ParseView(view); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("filter") {
				if q.Status, err = tasks.ParseStatus(filter); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("sort") {
				if q.Sort, err = tasks.ParseSort(sortOrder); err != nil {
					return err
				}
			}
			q.Search = search

			client, err := app.client(cfg)
			if err != nil {
				return err
			}
			list, err := client.List(context.Background())
			if err != nil {
				return err
			}
			return writeTasks(cmd.OutOrStdout(), tasks.Visible(list, q, time.Now()), format)
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "inbox|today|upcoming (default from config)")
	cmd.Flags().StringVar(&filter, "filter", "", "all|pending|completed|overdue (default from config)")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "duedate_asc|duedate_desc (default from config)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text to match in title or description")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json|yaml)")
	return cmd
}

func writeTasks(w io.Writer, list []todo.Task, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(list)
	case "text", "":
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No tasks found.")
			return err
		}
		for _, t := range list {
			if _, err := fmt.Fprintln(w, formatLine(t)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want text|json|yaml)", format)
}

func formatLine(t todo.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	due := "no due date"
	if t.DueDate != nil {
		due = "due " + t.DueDate.Local().Format(todo.InputLayout)
	}
	return fmt.Sprintf("%s %s  (%s)  %s", box, t.Title, due, t.ID)
}
