package utils

import (
	"fmt"
	"strings"

	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
)

// IntroText e a saudacao do agente em uma nova conversa.
const IntroText = "Hallo! Ich bin dein Menschen-Agent. Frag mich alles über Biologie, Psychologie, Kultur, Geschichte oder Gesundheit des Menschen."

// confidenceLabels traduz o nivel de confianca para o texto mostrado ao usuario.
var confidenceLabels = map[domain.Confidence]string{
	domain.ConfidenceLow:    "niedrig",
	domain.ConfidenceMedium: "mittel",
	domain.ConfidenceHigh:   "hoch",
}

// ConfidenceLabel retorna o rotulo em alemao do nivel de confianca.
func ConfidenceLabel(c domain.Confidence) string {
	if label, ok := confidenceLabels[c]; ok {
		return label
	}
	return string(c)
}

// BuildMainMenu gera a mensagem de boas-vindas com as categorias e perguntas iniciais.
func BuildMainMenu(name string, categories []knowledge.CategoryCount, starters []string) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Hallo %s! ", name)
	} else {
		b.WriteString("Hallo! ")
	}
	b.WriteString(strings.TrimPrefix(IntroText, "Hallo! "))

	if len(categories) > 0 {
		b.WriteString("\n\n📚 Wissenskarten:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "• %s (%d Themen)\n", c.Category, c.Count)
		}
	}
	if len(starters) > 0 {
		b.WriteString("\n💡 Schnelleinstieg:\n")
		for _, s := range starters {
			fmt.Fprintf(&b, "➡️ %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildAnswerMessage formata uma resposta encontrada como texto simples.
func BuildAnswerMessage(resp domain.AgentResponse) string {
	if !resp.IsAnswer() {
		return BuildFallbackMessage(resp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s* · %s · Sicherheit: %s\n\n", resp.Entry.Title, resp.Entry.Category, ConfidenceLabel(resp.Confidence))
	b.WriteString(resp.Answer)

	if len(resp.Entry.Details) > 0 {
		b.WriteString("\n\nExtra-Details aus der Wissensbasis:\n")
		for _, d := range resp.Entry.Details {
			fmt.Fprintf(&b, "• %s\n", d)
		}
	}
	if len(resp.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "\nVerstandene Stichworte: %s\n", strings.Join(resp.MatchedKeywords, ", "))
	}
	if len(resp.FollowUp) > 0 {
		b.WriteString("\nWeiterführende Fragen:\n")
		for _, f := range resp.FollowUp {
			fmt.Fprintf(&b, "➡️ %s\n", f)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildFallbackMessage formata o fallback com as sugestoes.
func BuildFallbackMessage(resp domain.AgentResponse) string {
	var b strings.Builder
	b.WriteString(resp.Answer)
	if len(resp.Suggestions) > 0 {
		b.WriteString("\n\nVorschläge:\n")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(&b, "➡️ %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
