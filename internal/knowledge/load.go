package knowledge

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"humanagent/internal/domain"
)

//go:embed data/human_knowledge.yaml
var defaultData []byte

var (
	defaultOnce sync.Once
	defaultBase *Static
	defaultErr  error
)

type document struct {
	Entries []domain.KnowledgeEntry `yaml:"entries"`
}

// Default retorna a base curada embutida no binario.
func Default() (*Static, error) {
	defaultOnce.Do(func() {
		defaultBase, defaultErr = LoadYAML(bytes.NewReader(defaultData))
	})
	return defaultBase, defaultErr
}

// LoadYAML le uma base no formato `entries: [...]`.
func LoadYAML(r io.Reader) (*Static, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: arquivo de conhecimento vazio", domain.ErrInvalidEntry)
		}
		return nil, fmt.Errorf("erro ao decodificar YAML da base de conhecimento: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("%w: nenhuma entrada encontrada", domain.ErrInvalidEntry)
	}
	return NewStatic(doc.Entries)
}

// LoadFile carrega a base a partir de um arquivo YAML.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir arquivo de conhecimento: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}
