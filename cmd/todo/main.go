package main

import (
	"os"
	"strings"
	"time"

	"notefiber-todo/internal/app"
	"notefiber-todo/internal/config"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/remote"
	"notefiber-todo/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type options struct {
	APIURL  string
	LogFile string
	Timeout time.Duration
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Terminal client for the notefiber todo service",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Connect to a local API
  todo

  # Connect to another instance
  todo --api https://todo.example.com
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.APIURL, "api", cfg.Client.APIURL, "base URL of the todo API")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", cfg.Client.LogFilePath, "client log file")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", cfg.Client.Timeout, "timeout for each API request")
	return cmd
}

func run(opts *options) error {
	// The terminal belongs to bubbletea, so logs only go to the file.
	log := logger.NewIsolatedLogger(opts.LogFile)
	defer log.Sync()

	client := remote.New(opts.APIURL, opts.Timeout, log)
	defer client.Close()

	model := tui.New(app.Deps{
		Auth:   client,
		Store:  client,
		Logger: log,
	})

	log.Info("Main", "Starting todo client", map[string]interface{}{"api": opts.APIURL})
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
