// Package cli implements the railboard command-line interface.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyctransit/railboard/internal/config"
	"github.com/nyctransit/railboard/internal/models"
	"github.com/nyctransit/railboard/pkg/transit"
)

type App struct {
	ConfigPath string
	System     string

	board *transit.Board
}

func Execute() error {
	app := &App{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "railboard",
		Short:         "Browse transit stations, departures, and service alerts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		config.DefaultPath(),
		"Path to configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&app.System,
		"system",
		"",
		"Transit system filter (SUBWAY, LIRR, MNR)",
	)

	cmd.AddCommand(NewStationsCmd(app))
	cmd.AddCommand(NewDeparturesCmd(app))
	cmd.AddCommand(NewAlertsCmd(app))
	cmd.AddCommand(NewFavoritesCmd(app))

	return cmd
}

// Board lazily constructs the transit board from config.
func (a *App) Board(ctx context.Context) (*transit.Board, error) {
	if a.board != nil {
		return a.board, nil
	}

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, err
	}

	a.board, err = transit.NewBoard(ctx, transit.Config{
		BaseURL:      cfg.BaseURL,
		DatabasePath: cfg.DatabasePath,
		CacheTTL:     cfg.TTL(),
	})
	return a.board, err
}

func (a *App) SystemTag() (models.SystemTag, bool) {
	if a.System == "" {
		return "", true
	}
	system := models.SystemTag(strings.ToUpper(a.System))
	return system, system.Valid()
}

func (a *App) close() error {
	if a.board == nil {
		return nil
	}
	return a.board.Close()
}
