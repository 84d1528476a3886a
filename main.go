package main

import (
	"fmt"
	"os"

	"humanagent/config"
	"humanagent/internal/cli"
	"humanagent/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})

	if err := cli.NewRootCmd(&cli.App{Config: cfg, Log: log}).Execute(); err != nil {
		log.Error().Err(err).Msg("comando falhou")
		os.Exit(1)
	}
}
