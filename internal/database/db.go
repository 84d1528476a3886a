package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open abre a conexao com o banco (postgres ou sqlite), testa com ping
// e garante que a tabela de conhecimento exista.
func Open(ctx context.Context, driver, url string) (*sql.DB, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("driver de banco de dados nao suportado: %q", driver)
	}

	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o banco de dados: %w", err)
	}

	if driver == "sqlite" {
		// Uma unica conexao mantem bancos ":memory:" consistentes entre consultas.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar com o banco de dados (ping): %w", err)
	}

	if err := createKnowledgeTableIfNotExists(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// createKnowledgeTableIfNotExists cria a tabela das entradas de conhecimento, se ela não existir.
// Listas sao guardadas como texto JSON para funcionar igual nos dois drivers.
func createKnowledgeTableIfNotExists(ctx context.Context, db *sql.DB, driver string) error {
	idColumn := "id SERIAL PRIMARY KEY"
	if driver == "sqlite" {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	query := `
    CREATE TABLE IF NOT EXISTS knowledge_entries (
        ` + idColumn + `,
        slug TEXT NOT NULL UNIQUE,
        position INTEGER NOT NULL,
        category TEXT NOT NULL,
        title TEXT NOT NULL,
        keywords TEXT NOT NULL,
        answer TEXT NOT NULL,
        details TEXT NOT NULL,
        follow_up TEXT NOT NULL
    );`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("erro ao criar tabela knowledge_entries: %w", err)
	}
	return nil
}
