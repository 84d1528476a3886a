package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"humanagent/internal/knowledge"
)

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Zeigt die Wissenskarten der Wissensbasis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadBase(cmd.Context(), app.Config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "%d kuratierte Wissensknoten\n", base.Len())
			for _, c := range knowledge.Categories(base) {
				fmt.Fprintf(out, "  %-14s %d Themen\n", c.Category, c.Count)
			}
			return nil
		},
	}
}
