package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"humanagent/internal/database"
	"humanagent/internal/knowledge"
	"humanagent/internal/repository"
)

func newSeedCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Grava a base YAML (embutida ou --file) no banco configurado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config.DatabaseUrl == "" {
				return errors.New("variavel de ambiente DATABASE_URL nao encontrada")
			}

			var base *knowledge.Static
			var err error
			if file != "" {
				base, err = knowledge.LoadFile(file)
			} else {
				base, err = knowledge.Default()
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.Open(ctx, app.Config.DatabaseDriver, app.Config.DatabaseUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewSQLKnowledgeRepository(db)
			if err := repo.ReplaceAll(ctx, base.Entries()); err != nil {
				return err
			}

			app.Log.Info().
				Str("driver", app.Config.DatabaseDriver).
				Int("entries", base.Len()).
				Msg("base de conhecimento gravada no banco")
			keywordColor.Fprintf(cmd.OutOrStdout(), "✓ %d Einträge gespeichert\n", base.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Arquivo YAML alternativo")
	return cmd
}
