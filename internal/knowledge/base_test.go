package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanagent/internal/domain"
)

func TestDefault_LoadsCuratedBase(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	require.NotZero(t, base.Len())

	for _, entry := range base.Entries() {
		assert.NotEmpty(t, entry.Keywords, entry.Title)
		assert.NotEmpty(t, entry.Category, entry.Title)
		assert.NotEmpty(t, entry.FollowUp, entry.Title)
		for _, kw := range entry.Keywords {
			assert.Equal(t, strings.ToLower(kw), kw, "keyword %q of %q is not normalized", kw, entry.Title)
			assert.NotContains(t, kw, "-")
		}
	}

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, base, again)
}

func TestNewStatic_NormalizesKeywords(t *testing.T) {
	base, err := NewStatic([]domain.KnowledgeEntry{{
		Category: "Biologie",
		Title:    "Herz",
		Keywords: []string{"Herz-Kreislauf", "HERZ", "herz"},
		Answer:   "Das Herz pumpt Blut.",
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"herz kreislauf", "herz"}, base.Entries()[0].Keywords)
}

func TestNewStatic_RejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.KnowledgeEntry
	}{
		{"no keywords", domain.KnowledgeEntry{Category: "A", Title: "T", Answer: "x"}},
		{"punctuation keywords only", domain.KnowledgeEntry{Category: "A", Title: "T", Answer: "x", Keywords: []string{"?!", " "}}},
		{"no category", domain.KnowledgeEntry{Title: "T", Answer: "x", Keywords: []string{"k"}}},
		{"no title", domain.KnowledgeEntry{Category: "A", Answer: "x", Keywords: []string{"k"}}},
		{"no answer", domain.KnowledgeEntry{Category: "A", Title: "T", Keywords: []string{"k"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStatic([]domain.KnowledgeEntry{tt.entry})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidEntry))
		})
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
entries:
  - category: Kultur
    title: Sprache
    keywords: [Sprache, Schrift]
    answer: Sprache ist Kommunikation.
    details: [Rund 7000 Sprachen.]
    followUp: [Wie lernen Kinder sprechen?]
`
	base, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, base.Len())

	entry := base.Entries()[0]
	assert.Equal(t, "Sprache", entry.Title)
	assert.Equal(t, []string{"sprache", "schrift"}, entry.Keywords)
	assert.Equal(t, []string{"Rund 7000 Sprachen."}, entry.Details)
	assert.Equal(t, []string{"Wie lernen Kinder sprechen?"}, entry.FollowUp)
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := LoadYAML(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)

	_, err = LoadYAML(strings.NewReader("entries: []\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)

	_, err = LoadYAML(strings.NewReader("entries:\n  - titel: falsch\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - {category: A, title: T, keywords: [k], answer: x}\n"), 0o644))

	base, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, base.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCategories_CountsAndSorts(t *testing.T) {
	base, err := NewStatic([]domain.KnowledgeEntry{
		{Category: "Psychologie", Title: "A", Keywords: []string{"a"}, Answer: "a"},
		{Category: "Biologie", Title: "B", Keywords: []string{"b"}, Answer: "b"},
		{Category: "Psychologie", Title: "C", Keywords: []string{"c"}, Answer: "c"},
	})
	require.NoError(t, err)

	assert.Equal(t, []CategoryCount{
		{Category: "Biologie", Count: 1},
		{Category: "Psychologie", Count: 2},
	}, Categories(base))
}
