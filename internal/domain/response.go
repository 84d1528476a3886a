package domain

// ResponseType distingue uma resposta encontrada de um fallback.
type ResponseType string

const (
	ResponseAnswer   ResponseType = "answer"
	ResponseFallback ResponseType = "fallback"
)

// Confidence e o nivel discreto de certeza de uma resposta.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank retorna a posicao do nivel na ordem low < medium < high.
// Valores desconhecidos ficam abaixo de low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	default:
		return 0
	}
}

// AgentResponse e o resultado de uma pergunta.
// Com Type == ResponseAnswer os campos Entry, FollowUp, Confidence e MatchedKeywords sao preenchidos;
// com Type == ResponseFallback apenas Answer e Suggestions.
type AgentResponse struct {
	Type            ResponseType    `json:"type"`
	Entry           *KnowledgeEntry `json:"entry,omitempty"`
	Answer          string          `json:"answer"`
	FollowUp        []string        `json:"followUp,omitempty"`
	Confidence      Confidence      `json:"confidence,omitempty"`
	MatchedKeywords []string        `json:"matchedKeywords,omitempty"`
	Suggestions     []string        `json:"suggestions,omitempty"`
}

// IsAnswer informa se a resposta veio de uma entrada da base.
func (r AgentResponse) IsAnswer() bool {
	return r.Type == ResponseAnswer && r.Entry != nil
}
