package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"remindr/internal/config"
	"remindr/internal/remote"
	"remindr/internal/ui"
)

type App struct {
	ConfigPath string
	Endpoint   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "remindr",
		Short:        "Terminal to-do list backed by a REST todos collection",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  remindr

  # Serve a local todos collection for the TUI to talk to
  remindr serve

  # Scriptable commands
  remindr list --view today --filter overdue
  remindr add --title "Buy milk" --due "2026-10-18 09:00"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $REMINDR_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&app.Endpoint, "endpoint", envOr("REMINDR_ENDPOINT", ""), "API base URL; the todos collection lives at <endpoint>/todos")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newServeCmd(app))
	return cmd
}

func (a *App) loadConfig() (config.Config, error) {
	path := a.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if a.Endpoint != "" {
		cfg.Endpoint = a.Endpoint
	}
	return cfg, nil
}

func (a *App) client(cfg config.Config) (*remote.Client, error) {
	return remote.New(cfg.Endpoint)
}

func runTUI(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	client, err := app.client(cfg)
	if err != nil {
		return err
	}

	// Anything logged to stderr would tear the alternate screen.
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "remindr")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	return ui.Run(ui.Options{
		Store:    client,
		Config:   cfg,
		Endpoint: client.Endpoint(),
	})
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
