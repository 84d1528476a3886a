package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntry indica uma entrada de conhecimento malformada na carga inicial.
var ErrInvalidEntry = errors.New("entrada de conhecimento invalida")

// KnowledgeEntry representa um tema curado da base de conhecimento sobre o ser humano.
// Depois de carregada, uma entrada nunca e alterada.
type KnowledgeEntry struct {
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Category string   `yaml:"category" json:"category"`
	Title    string   `yaml:"title" json:"title"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Answer   string   `yaml:"answer" json:"answer"`
	Details  []string `yaml:"details" json:"details"`
	FollowUp []string `yaml:"followUp" json:"followUp"`
}

// Validate verifica os campos obrigatorios de uma entrada.
func (e KnowledgeEntry) Validate() error {
	switch {
	case strings.TrimSpace(e.Category) == "":
		return fmt.Errorf("%w: categoria vazia (titulo %q)", ErrInvalidEntry, e.Title)
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: titulo vazio (categoria %q)", ErrInvalidEntry, e.Category)
	case strings.TrimSpace(e.Answer) == "":
		return fmt.Errorf("%w: resposta vazia (%q)", ErrInvalidEntry, e.Title)
	case len(e.Keywords) == 0:
		return fmt.Errorf("%w: nenhuma palavra-chave (%q)", ErrInvalidEntry, e.Title)
	}
	return nil
}
