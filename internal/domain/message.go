package domain

import "time"

// Role identifica o autor de uma mensagem do chat.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message e um item do historico de conversa.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Response  *AgentResponse `json:"response,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
