package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanagent/config"
	"humanagent/internal/agent"
)

func testApp(cfg config.Config) *App {
	if cfg.KnowledgeSource == "" {
		cfg.KnowledgeSource = config.SourceEmbedded
	}
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "sqlite"
	}
	return &App{Config: cfg, Log: zerolog.Nop()}
}

// executeCmd roda o comando e captura stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAskCmd_Answer(t *testing.T) {
	out, err := executeCmd(t, testApp(config.Config{}), "ask", "Wie", "funktioniert", "das", "Herz-Kreislauf-System?")
	require.NoError(t, err)

	assert.Contains(t, out, "Herz und Kreislauf")
	assert.Contains(t, out, "Sicherheit: hoch")
	assert.Contains(t, out, "Verstandene Stichworte: herz, herz kreislauf, kreislauf")
	assert.NotContains(t, out, "Ranking")
}

func TestAskCmd_Fallback(t *testing.T) {
	out, err := executeCmd(t, testApp(config.Config{}), "ask", "xyzabc123")
	require.NoError(t, err)

	assert.Contains(t, out, agent.DefaultFallbackAnswer)
	for _, s := range agent.DefaultSuggestions {
		assert.Contains(t, out, s)
	}
}

func TestAskCmd_Explain(t *testing.T) {
	out, err := executeCmd(t, testApp(config.Config{}), "ask", "--explain", "--limit", "2", "Schlaf und Gedächtnis")
	require.NoError(t, err)

	assert.Contains(t, out, "Ranking")
	assert.Contains(t, out, "  1. ")
	assert.NotContains(t, out, "  3. ")
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	_, err := executeCmd(t, testApp(config.Config{}), "ask", "   ")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(config.Config{}), "ask")
	assert.Error(t, err)
}

func TestCategoriesCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(config.Config{}), "categories")
	require.NoError(t, err)

	assert.Contains(t, out, "kuratierte Wissensknoten")
	assert.Contains(t, out, "Biologie")
	assert.Contains(t, out, "Psychologie")
}

func TestCategoriesCmd_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	yaml := `entries:
  - category: Test
    title: Nur ein Eintrag
    keywords: [alpha]
    answer: Antwort.
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	app := testApp(config.Config{KnowledgeSource: config.SourceFile, KnowledgeFile: path})
	out, err := executeCmd(t, app, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "1 kuratierte Wissensknoten")
	assert.Contains(t, out, "Test")
}

func TestSeedThenAskFromDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "knowledge.db")

	out, err := executeCmd(t, testApp(config.Config{DatabaseUrl: dsn}), "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Einträge gespeichert")

	app := testApp(config.Config{KnowledgeSource: config.SourceDatabase, DatabaseUrl: dsn})
	out, err = executeCmd(t, app, "ask", "Was ist DNA?")
	require.NoError(t, err)
	assert.Contains(t, out, "DNA und Vererbung")
}

func TestDatabaseSource_EmptyTable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "empty.db")
	app := testApp(config.Config{KnowledgeSource: config.SourceDatabase, DatabaseUrl: dsn})

	_, err := executeCmd(t, app, "categories")
	assert.Error(t, err)
}

func TestSeedCmd_RequiresDatabaseURL(t *testing.T) {
	_, err := executeCmd(t, testApp(config.Config{}), "seed")
	assert.Error(t, err)
}

func TestSweepInterval(t *testing.T) {
	assert.Zero(t, sweepInterval(0))
	assert.Equal(t, time.Second, sweepInterval(2*time.Second))
	assert.Equal(t, 5*time.Minute, sweepInterval(20*time.Minute))
}
