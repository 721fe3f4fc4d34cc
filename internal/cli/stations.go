package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyctransit/railboard/internal/models"
)

func NewStationsCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stations [query]",
		Short: "Search stations, favorites first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, ok := app.SystemTag()
			if !ok {
				return fmt.Errorf("unknown system %q", app.System)
			}

			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}

			if refresh {
				if _, err := board.RefreshStations(cmd.Context(), system); err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			listing, err := board.SearchStations(cmd.Context(), query, system)
			if err != nil {
				return err
			}

			if len(listing.Favorites) > 0 {
				fmt.Println("Favorites:")
				printStations(listing.Favorites)
				fmt.Println()
			}
			if len(listing.Others) > 0 {
				fmt.Println("Stations:")
				printStations(listing.Others)
			}
			if len(listing.Favorites) == 0 && len(listing.Others) == 0 {
				fmt.Println("No stations found")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache and fetch fresh data")
	return cmd
}

func printStations(stations []models.Station) {
	for _, s := range stations {
		line := fmt.Sprintf("- %s (%s)", s.Name, s.ID)
		if len(s.Lines) > 0 {
			line += " [" + strings.Join(s.Lines, " ") + "]"
		}
		fmt.Println(line)
	}
}
