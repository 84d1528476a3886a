// Package normalize reduz perguntas e palavras-chave a mesma forma comparavel.
package normalize

import (
	"strings"
	"unicode"
)

// Fields converte o texto para minusculas e o divide em palavras.
// Qualquer caractere que nao seja letra ou digito funciona como separador,
// entao "Herz-Kreislauf-System?" vira [herz kreislauf system].
func Fields(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

// Text retorna as palavras de Fields unidas por um unico espaco.
func Text(text string) string {
	return strings.Join(Fields(text), " ")
}

// Keywords normaliza uma lista de palavras-chave mantendo a ordem original.
// Entradas vazias apos a normalizacao e duplicatas sao descartadas.
func Keywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		n := Text(kw)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
