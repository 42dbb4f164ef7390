package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"blogdesk/cmd/app"
	"blogdesk/internal/config"
	"blogdesk/internal/database"
	handlers "blogdesk/internal/handler"
	"blogdesk/internal/logger"
)

var (
	h      *handlers.Handlers
	db     *database.DB
	logOut io.Closer

	assumeYes bool
	noColor   bool
)

// RootCmd is the base command. Every subcommand gets a wired Handlers in h.
var RootCmd = &cobra.Command{
	Use:           "blogdesk [command] [flags]",
	Short:         "blogdesk: read, write and moderate blogs from the terminal",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func setup(ctx context.Context) error {
	if noColor {
		color.NoColor = true
	}

	cfg := config.LoadConfig()

	log, closer, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	logOut = closer

	db, h, err = app.App(ctx, cfg, log)
	if err != nil {
		return err
	}

	h.AssumeYes = assumeYes
	h.Spinner = !color.NoColor
	return nil
}

func teardown() {
	if db != nil {
		_ = db.CloseDB()
		db = nil
	}
	if logOut != nil {
		_ = logOut.Close()
		logOut = nil
	}
}
