package main

import (
	"fmt"

	"github.com/jeamon/bookshelf"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var noSimilar bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a book and the similar books found online",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, found := app.Store.Get(args[0])
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}
			printDetails(book)
			if noSimilar {
				return nil
			}
			storeURL := app.Config.Discovery.StoreURL
			return app.Discover(cmd.Context(), book, func(s bookshelf.PanelState) {
				printPanel(s, storeURL)
			})
		},
	}
	cmd.Flags().BoolVar(&noSimilar, "no-similar", false, "Skip the similar books lookup")
	return cmd
}
