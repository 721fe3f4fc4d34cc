package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyctransit/railboard/internal/models"
	"github.com/nyctransit/railboard/internal/organize"
)

func NewDeparturesCmd(app *App) *cobra.Command {
	var limitMinutes int

	cmd := &cobra.Command{
		Use:   "departures <station-id>",
		Short: "Show upcoming departures for a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}

			sections, err := board.Departures(cmd.Context(), args[0], limitMinutes)
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				fmt.Println("No upcoming departures")
				return nil
			}

			for _, section := range sections {
				fmt.Printf("%s:\n", section.Label)
				for _, d := range section.Departures {
					fmt.Println("  " + formatDeparture(d))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limitMinutes, "limit", 0, "Only show departures within this many minutes (0 = all)")
	return cmd
}

func formatDeparture(d models.Departure) string {
	route := d.RouteShortName
	if route == "" {
		route = d.RouteID
	}

	when := "--:--"
	if d.Time != nil {
		when = d.Time.Local().Format("3:04 PM")
	}

	line := fmt.Sprintf("%-5s %s  %s", route, when, d.Destination)
	if d.Track != "" {
		line += fmt.Sprintf("  track %s", d.Track)
	}

	switch organize.CategorizeStatus(d.Status) {
	case organize.StatusDelayed:
		line += "  [delayed"
		if d.DelayMinutes != nil {
			line += fmt.Sprintf(" %dm", *d.DelayMinutes)
		}
		line += "]"
	case organize.StatusCancelled:
		line += "  [cancelled]"
	case organize.StatusOnTime:
		// The quiet default; no badge.
	default:
		if d.Status != "" {
			line += fmt.Sprintf("  [%s]", d.Status)
		}
	}
	return line
}
