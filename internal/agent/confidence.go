package agent

import "humanagent/internal/domain"

// Limites da politica de confianca.
const (
	// HighMinMatches palavras-chave encontradas ja garantem confianca alta.
	HighMinMatches = 3
	// MediumMinMatches palavras-chave encontradas garantem pelo menos confianca media.
	MediumMinMatches = 2
	// HighMinRatio eleva para alta uma resposta com MediumMinMatches ou mais acertos
	// quando essa fracao das palavras-chave da entrada foi encontrada.
	HighMinRatio = 0.5
)

// ConfidenceFor deriva o nivel de confianca a partir de quantas palavras-chave
// da entrada foram encontradas e de quantas a entrada possui.
func ConfidenceFor(matched, total int) domain.Confidence {
	switch {
	case matched >= HighMinMatches:
		return domain.ConfidenceHigh
	case matched >= MediumMinMatches && total > 0 && float64(matched)/float64(total) >= HighMinRatio:
		return domain.ConfidenceHigh
	case matched >= MediumMinMatches:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
