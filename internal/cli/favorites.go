package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewFavoritesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage starred stations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List starred station IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}

			ids := board.FavoriteIDs()
			if len(ids) == 0 {
				fmt.Println("No favorites yet")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <station-id>",
		Short: "Star a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.AddFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Starred %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <station-id>",
		Short: "Unstar a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.RemoveFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Unstarred %s\n", args[0])
			return nil
		},
	})

	return cmd
}
