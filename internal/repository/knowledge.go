package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/normalize"
)

// ErrEmptyKnowledge indica que o banco nao possui nenhuma entrada.
var ErrEmptyKnowledge = errors.New("nenhuma entrada de conhecimento no banco de dados")

// KnowledgeRepository define a interface para persistir e recuperar as entradas curadas.
type KnowledgeRepository interface {
	SaveEntry(ctx context.Context, entry domain.KnowledgeEntry) error
	ListEntries(ctx context.Context) ([]domain.KnowledgeEntry, error)
	ReplaceAll(ctx context.Context, entries []domain.KnowledgeEntry) error
}

// SQLKnowledgeRepository implementa KnowledgeRepository sobre database/sql.
// As consultas usam placeholders $n, aceitos pelo PostgreSQL e pelo SQLite.
type SQLKnowledgeRepository struct {
	db *sql.DB
}

// NewSQLKnowledgeRepository cria uma nova instância do repositório.
func NewSQLKnowledgeRepository(db *sql.DB) *SQLKnowledgeRepository {
	return &SQLKnowledgeRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveEntry insere a entrada no fim da base ou atualiza a entrada com o mesmo id, mantendo a posição.
func (r *SQLKnowledgeRepository) SaveEntry(ctx context.Context, entry domain.KnowledgeEntry) error {
	return saveEntry(ctx, r.db, entry)
}

func saveEntry(ctx context.Context, db execer, entry domain.KnowledgeEntry) error {
	entry.Keywords = normalize.Keywords(entry.Keywords)
	if err := entry.Validate(); err != nil {
		return err
	}

	slug := entry.ID
	if slug == "" {
		slug = Slug(entry.Title)
	}

	keywords, err := json.Marshal(entry.Keywords)
	if err != nil {
		return fmt.Errorf("erro ao converter palavras-chave para JSON: %w", err)
	}
	details, err := json.Marshal(nonNil(entry.Details))
	if err != nil {
		return fmt.Errorf("erro ao converter detalhes para JSON: %w", err)
	}
	followUp, err := json.Marshal(nonNil(entry.FollowUp))
	if err != nil {
		return fmt.Errorf("erro ao converter perguntas de acompanhamento para JSON: %w", err)
	}

	var position int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM knowledge_entries`).Scan(&position); err != nil {
		return fmt.Errorf("erro ao calcular posição da entrada: %w", err)
	}

	query := `
    INSERT INTO knowledge_entries (slug, position, category, title, keywords, answer, details, follow_up)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    ON CONFLICT (slug) DO UPDATE SET
        category = excluded.category,
        title = excluded.title,
        keywords = excluded.keywords,
        answer = excluded.answer,
        details = excluded.details,
        follow_up = excluded.follow_up`

	_, err = db.ExecContext(ctx, query,
		slug,
		position,
		entry.Category,
		entry.Title,
		string(keywords),
		entry.Answer,
		string(details),
		string(followUp),
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar conhecimento no banco de dados: %w", err)
	}
	return nil
}

// ListEntries retorna todas as entradas na ordem em que foram gravadas.
func (r *SQLKnowledgeRepository) ListEntries(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	query := `
    SELECT slug, category, title, keywords, answer, details, follow_up
    FROM knowledge_entries
    ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar conhecimento no banco de dados: %w", err)
	}
	defer rows.Close()

	var entries []domain.KnowledgeEntry
	for rows.Next() {
		var entry domain.KnowledgeEntry
		var keywords, details, followUp string

		if err := rows.Scan(&entry.ID, &entry.Category, &entry.Title, &keywords, &entry.Answer, &details, &followUp); err != nil {
			return nil, fmt.Errorf("erro ao escanear linha de conhecimento: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &entry.Keywords); err != nil {
			return nil, fmt.Errorf("palavras-chave inválidas na entrada %q: %w", entry.ID, err)
		}
		if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
			return nil, fmt.Errorf("detalhes inválidos na entrada %q: %w", entry.ID, err)
		}
		if err := json.Unmarshal([]byte(followUp), &entry.FollowUp); err != nil {
			return nil, fmt.Errorf("perguntas de acompanhamento inválidas na entrada %q: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração das linhas de conhecimento: %w", err)
	}
	return entries, nil
}

// ReplaceAll apaga a base atual e grava as entradas na ordem recebida, numa única transação.
func (r *SQLKnowledgeRepository) ReplaceAll(ctx context.Context, entries []domain.KnowledgeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_entries`); err != nil {
		return fmt.Errorf("erro ao limpar knowledge_entries: %w", err)
	}
	for i, entry := range entries {
		if err := saveEntry(ctx, tx, entry); err != nil {
			return fmt.Errorf("entrada %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar transação: %w", err)
	}
	return nil
}

// LoadBase monta a base imutável a partir do repositório.
func LoadBase(ctx context.Context, repo KnowledgeRepository) (*knowledge.Static, error) {
	entries, err := repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyKnowledge
	}
	return knowledge.NewStatic(entries)
}

// Slug gera um identificador estável a partir do título.
func Slug(title string) string {
	return strings.ReplaceAll(normalize.Text(title), " ", "-")
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
