// Package logger configura o zerolog usado pelo servidor e pela CLI.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config define nivel, formato (console ou json) e destino dos logs.
type Config struct {
	Level       string
	Format      string
	Output      io.Writer
	ServiceName string
}

// New cria um logger com timestamp e o nome do servico em todas as linhas.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := cfg.ServiceName
	if service == "" {
		service = "menschen-agent"
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ParseLevel converte o nome do nivel; valores invalidos viram info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
