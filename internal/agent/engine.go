// Package agent implementa o motor que associa perguntas livres as entradas da base de conhecimento.
package agent

import (
	"strings"
	"unicode/utf8"

	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/normalize"
)

// DefaultFallbackAnswer e a resposta quando nenhuma entrada combina com a pergunta.
const DefaultFallbackAnswer = "Dazu habe ich in meiner Wissensbasis leider nichts Passendes gefunden. " +
	"Versuch es mit klaren Stichworten wie „Immunsystem“, „Emotionen“ oder „Homo sapiens“."

// DefaultSuggestions sao as perguntas iniciais sugeridas em todo fallback.
// A lista e fixa e nao depende da pergunta.
var DefaultSuggestions = []string{
	"Wie funktioniert das Herz-Kreislauf-System?",
	"Warum sind Emotionen für Menschen wichtig?",
	"Welche Meilensteine prägen die Geschichte der Menschheit?",
}

// Engine responde perguntas consultando uma Base somente leitura.
// Nao guarda estado entre chamadas e pode ser usado por varias goroutines ao mesmo tempo.
type Engine struct {
	base           knowledge.Base
	fallbackAnswer string
	suggestions    []string
}

// Option configura um Engine.
type Option func(*Engine)

// WithFallback troca a resposta e as sugestoes do fallback.
func WithFallback(answer string, suggestions []string) Option {
	return func(e *Engine) {
		e.fallbackAnswer = answer
		e.suggestions = append([]string(nil), suggestions...)
	}
}

// New cria um Engine sobre a base informada.
func New(base knowledge.Base, opts ...Option) *Engine {
	e := &Engine{
		base:           base,
		fallbackAnswer: DefaultFallbackAnswer,
		suggestions:    append([]string(nil), DefaultSuggestions...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match e a pontuacao de uma entrada para uma pergunta.
type Match struct {
	Index    int
	Entry    domain.KnowledgeEntry
	Keywords []string
	Chars    int
	// Total e o numero de palavras-chave distintas da entrada apos a normalizacao.
	Total int
}

// Score e o numero de palavras-chave encontradas.
func (m Match) Score() int {
	return len(m.Keywords)
}

// beats define a ordem total: mais palavras-chave, depois mais caracteres, depois a entrada mais antiga.
func (m Match) beats(other Match) bool {
	if m.Score() != other.Score() {
		return m.Score() > other.Score()
	}
	if m.Chars != other.Chars {
		return m.Chars > other.Chars
	}
	return m.Index < other.Index
}

// Answer associa a pergunta a melhor entrada da base ou devolve o fallback.
// Nunca falha: entrada vazia ou sem sentido sempre cai no fallback.
func (e *Engine) Answer(question string) domain.AgentResponse {
	q := newQuery(question)

	var best Match
	found := false
	for i, entry := range e.base.Entries() {
		m := q.match(i, entry)
		if m.Score() == 0 {
			continue
		}
		if !found || m.beats(best) {
			best = m
			found = true
		}
	}

	if !found {
		return e.fallback()
	}

	entry := best.Entry
	entry.Keywords = append([]string(nil), entry.Keywords...)
	entry.Details = append([]string(nil), entry.Details...)
	entry.FollowUp = append([]string(nil), entry.FollowUp...)
	return domain.AgentResponse{
		Type:            domain.ResponseAnswer,
		Entry:           &entry,
		Answer:          entry.Answer,
		FollowUp:        append([]string(nil), entry.FollowUp...),
		Confidence:      ConfidenceFor(best.Score(), best.Total),
		MatchedKeywords: best.Keywords,
	}
}

// Rank retorna ate limit entradas com pelo menos uma palavra-chave encontrada,
// na mesma ordem usada por Answer. limit <= 0 retorna todas.
func (e *Engine) Rank(question string, limit int) []Match {
	q := newQuery(question)

	var matches []Match
	for i, entry := range e.base.Entries() {
		m := q.match(i, entry)
		if m.Score() == 0 {
			continue
		}
		pos := len(matches)
		for pos > 0 && m.beats(matches[pos-1]) {
			pos--
		}
		matches = append(matches, Match{})
		copy(matches[pos+1:], matches[pos:])
		matches[pos] = m
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (e *Engine) fallback() domain.AgentResponse {
	return domain.AgentResponse{
		Type:        domain.ResponseFallback,
		Answer:      e.fallbackAnswer,
		Suggestions: append([]string(nil), e.suggestions...),
	}
}

// query guarda a pergunta normalizada: o texto com espacos nas bordas
// para busca de frases e o conjunto de palavras.
type query struct {
	padded string
	tokens map[string]struct{}
}

func newQuery(question string) query {
	fields := normalize.Fields(question)
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return query{
		padded: " " + strings.Join(fields, " ") + " ",
		tokens: tokens,
	}
}

// contains aplica a regra de presenca: palavra inteira para palavras-chave simples,
// sequencia contigua de palavras inteiras para frases. Frases tambem respeitam os limites
// das palavras, entao "t zellen" nao casa dentro de "mit zellen", embora seja uma
// substring contigua. n ja deve estar normalizado.
func (q query) contains(n string) bool {
	if n == "" {
		return false
	}
	if !strings.Contains(n, " ") {
		_, ok := q.tokens[n]
		return ok
	}
	return strings.Contains(q.padded, " "+n+" ")
}

func (q query) match(index int, entry domain.KnowledgeEntry) Match {
	m := Match{Index: index, Entry: entry}
	seen := make(map[string]struct{}, len(entry.Keywords))
	for _, kw := range entry.Keywords {
		n := normalize.Text(kw)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		m.Total++
		if q.contains(n) {
			m.Keywords = append(m.Keywords, kw)
			m.Chars += utf8.RuneCountInString(kw)
		}
	}
	return m
}
