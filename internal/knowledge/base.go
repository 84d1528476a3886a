// Package knowledge fornece a base de conhecimento curada, somente leitura.
package knowledge

import (
	"fmt"
	"sort"

	"humanagent/internal/domain"
	"humanagent/internal/normalize"
)

// Base expoe a sequencia ordenada de entradas. O slice retornado nao deve ser alterado.
type Base interface {
	Entries() []domain.KnowledgeEntry
}

// Static e uma Base imutavel mantida em memoria durante toda a vida do processo.
type Static struct {
	entries []domain.KnowledgeEntry
}

// NewStatic normaliza as palavras-chave, valida cada entrada e congela a ordem recebida.
func NewStatic(entries []domain.KnowledgeEntry) (*Static, error) {
	out := make([]domain.KnowledgeEntry, 0, len(entries))
	for i, entry := range entries {
		entry.Keywords = normalize.Keywords(entry.Keywords)
		entry.Details = append([]string(nil), entry.Details...)
		entry.FollowUp = append([]string(nil), entry.FollowUp...)
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entrada %d: %w", i, err)
		}
		out = append(out, entry)
	}
	return &Static{entries: out}, nil
}

// Entries retorna as entradas na ordem da base.
func (s *Static) Entries() []domain.KnowledgeEntry {
	return s.entries
}

// Len retorna o numero de entradas.
func (s *Static) Len() int {
	return len(s.entries)
}

// CategoryCount e uma linha do resumo de categorias.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Categories conta as entradas por categoria, em ordem alfabetica.
func Categories(base Base) []CategoryCount {
	counts := make(map[string]int)
	for _, entry := range base.Entries() {
		counts[entry.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}
