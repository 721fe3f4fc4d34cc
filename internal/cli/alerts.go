package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func NewAlertsCmd(app *App) *cobra.Command {
	var (
		lines     []string
		stationID string
	)

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show active service alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}

			alerts, err := board.Alerts(cmd.Context(), lines, stationID)
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Println("No active alerts")
				return nil
			}

			for i, a := range alerts {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("%s\n", a.Title)
				if len(a.LineLabels) > 0 {
					fmt.Printf("  Lines: %s\n", strings.Join(a.LineLabels, ", "))
				} else if len(a.Lines) > 0 {
					fmt.Printf("  Lines: %s\n", strings.Join(a.Lines, ", "))
				}
				if a.Start != nil {
					window := a.Start.Local().Format(time.RFC822)
					if a.End != nil {
						window += " - " + a.End.Local().Format(time.RFC822)
					} else {
						window += " - ongoing"
					}
					fmt.Printf("  When: %s\n", window)
				}
				if a.Description != "" {
					fmt.Printf("  %s\n", a.Description)
				}
				if a.URL != "" {
					fmt.Printf("  %s\n", a.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&lines, "lines", nil, "Only alerts affecting these line codes")
	cmd.Flags().StringVar(&stationID, "station", "", "Only alerts affecting this station")
	return cmd
}
