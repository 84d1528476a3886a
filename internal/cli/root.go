// Package cli monta os comandos cobra do agente: servidor, perguntas avulsas,
// resumo da base e carga do banco.
package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"humanagent/config"
	"humanagent/internal/database"
	"humanagent/internal/knowledge"
	"humanagent/internal/repository"
)

// App guarda o que os comandos compartilham.
type App struct {
	Config config.Config
	Log    zerolog.Logger
}

// NewRootCmd cria o comando "menschen-agent" com todos os subcomandos.
func NewRootCmd(app *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "menschen-agent",
		Short:         "Wissensagent über den Menschen",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Desativa cores na saída")

	root.AddCommand(
		newServeCmd(app),
		newAskCmd(app),
		newCategoriesCmd(app),
		newSeedCmd(app),
	)

	return root
}

// loadBase carrega a base de conhecimento da fonte configurada.
// No banco, a conexao so vive durante a leitura: a base carregada e imutavel.
func loadBase(ctx context.Context, cfg config.Config) (*knowledge.Static, error) {
	switch cfg.KnowledgeSource {
	case config.SourceFile:
		return knowledge.LoadFile(cfg.KnowledgeFile)
	case config.SourceDatabase:
		db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseUrl)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return repository.LoadBase(ctx, repository.NewSQLKnowledgeRepository(db))
	default:
		return knowledge.Default()
	}
}
