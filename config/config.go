package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Fontes possiveis da base de conhecimento.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceDatabase = "database"
)

const (
	defaultPort            = "8080"
	defaultDatabaseDriver  = "postgres"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultWaSenderBaseURL = "https://www.wasenderapi.com"
	defaultNgrokAPIURL     = "http://127.0.0.1:4040"
	defaultTranscriptLimit = 100
	defaultMaxSessions     = 10000
	defaultSessionTTL      = 30 * time.Minute
)

type Config struct {
	Port            string        `json:"port"`
	KnowledgeSource string        `json:"knowledge_source"`
	KnowledgeFile   string        `json:"knowledge_file"`
	DatabaseDriver  string        `json:"database_driver"`
	DatabaseUrl     string        `json:"database_url"`
	LogLevel        string        `json:"log_level"`
	LogFormat       string        `json:"log_format"`
	ApiKey          string        `json:"apikey"`
	WaSenderBaseURL string        `json:"wasender_base_url"`
	NgrokAPIURL     string        `json:"ngrok_api_url"`
	TranscriptLimit int           `json:"transcript_limit"`
	MaxSessions     int           `json:"max_sessions"`
	SessionTTL      time.Duration `json:"session_ttl"`
}

// WhatsAppEnabled informa se o canal WaSender foi configurado.
func (c Config) WhatsAppEnabled() bool {
	return c.ApiKey != ""
}

// Load carrega as variaveis de ambiente, lendo antes o arquivo .env quando ele existir.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("erro ao carregar o arquivo .env: %w", err)
	}

	cfg := Config{
		Port:            getenv("PORT", defaultPort),
		KnowledgeSource: strings.ToLower(getenv("KNOWLEDGE_SOURCE", SourceEmbedded)),
		KnowledgeFile:   os.Getenv("KNOWLEDGE_FILE"),
		DatabaseDriver:  strings.ToLower(getenv("DATABASE_DRIVER", defaultDatabaseDriver)),
		DatabaseUrl:     os.Getenv("DATABASE_URL"),
		LogLevel:        getenv("LOG_LEVEL", defaultLogLevel),
		LogFormat:       getenv("LOG_FORMAT", defaultLogFormat),
		ApiKey:          os.Getenv("WASENDER_API_KEY"),
		WaSenderBaseURL: getenv("WASENDER_BASE_URL", defaultWaSenderBaseURL),
		NgrokAPIURL:     getenv("NGROK_API_URL", defaultNgrokAPIURL),
		TranscriptLimit: defaultTranscriptLimit,
		MaxSessions:     defaultMaxSessions,
		SessionTTL:      defaultSessionTTL,
	}

	if raw := os.Getenv("TRANSCRIPT_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Config{}, fmt.Errorf("variavel de ambiente TRANSCRIPT_LIMIT invalida: %q", raw)
		}
		cfg.TranscriptLimit = limit
	}

	if raw := os.Getenv("SESSION_MAX"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("variavel de ambiente SESSION_MAX invalida: %q", raw)
		}
		cfg.MaxSessions = n
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("variavel de ambiente SESSION_TTL invalida: %q", raw)
		}
		cfg.SessionTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate confere combinacoes obrigatorias de variaveis.
func (c Config) Validate() error {
	switch c.KnowledgeSource {
	case SourceEmbedded:
	case SourceFile:
		if c.KnowledgeFile == "" {
			return errors.New("variavel de ambiente KNOWLEDGE_FILE nao encontrada")
		}
	case SourceDatabase:
		if c.DatabaseUrl == "" {
			return errors.New("variavel de ambiente DATABASE_URL nao encontrada")
		}
	default:
		return fmt.Errorf("KNOWLEDGE_SOURCE desconhecida: %q", c.KnowledgeSource)
	}

	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER desconhecido: %q", c.DatabaseDriver)
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("variavel de ambiente PORT invalida: %q", c.Port)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
