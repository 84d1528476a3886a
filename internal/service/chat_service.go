package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"humanagent/internal/agent"
	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/sessions"
	"humanagent/internal/utils"
)

// ErrEmptyQuestion e retornado quando a pergunta so tem espacos.
var ErrEmptyQuestion = errors.New("pergunta vazia")

// IntroAnswer acompanha a mensagem de boas-vindas de cada nova sessao.
const IntroAnswer = "Ich kenne ein kuratiertes Wissensnetz über den Menschen und helfe dir dabei, die richtigen Fakten schnell zu finden."

// StarterPrompts sao os atalhos de perguntas exibidos na pagina e no menu.
var StarterPrompts = []string{
	"Erklär mir, wie das Immunsystem aufgebaut ist.",
	"Was unterscheidet Homo sapiens von früheren Menschenarten?",
	"Wie beeinflusst Schlaf unsere geistige Leistung?",
	"Welche Faktoren formen menschliche Kultur?",
}

// Answerer e o contrato do motor de respostas.
type Answerer interface {
	Answer(question string) domain.AgentResponse
}

// ChatService liga o motor de respostas ao historico das sessoes.
type ChatService struct {
	engine Answerer
	base   knowledge.Base
	store  *sessions.Store
	log    zerolog.Logger
	now    func() time.Time
}

// NewChatService cria o servico de chat.
func NewChatService(engine Answerer, base knowledge.Base, store *sessions.Store, log zerolog.Logger) *ChatService {
	return &ChatService{
		engine: engine,
		base:   base,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

// NewSessionID gera um identificador de sessao aleatorio.
func NewSessionID() string {
	return uuid.NewString()
}

// IntroMessage e a primeira mensagem do agente em toda conversa.
func IntroMessage() domain.Message {
	return domain.Message{
		ID:      "welcome",
		Role:    domain.RoleAgent,
		Content: utils.IntroText,
		Response: &domain.AgentResponse{
			Type:        domain.ResponseFallback,
			Answer:      IntroAnswer,
			Suggestions: append([]string(nil), agent.DefaultSuggestions...),
		},
	}
}

// StartSession garante que a sessao exista, comecando pela mensagem de boas-vindas,
// e retorna o historico atual.
func (s *ChatService) StartSession(sessionID string) []domain.Message {
	s.initSession(sessionID)
	history, _ := s.store.Get(sessionID)
	return history
}

func (s *ChatService) initSession(sessionID string) {
	intro := IntroMessage()
	intro.CreatedAt = s.now()
	s.store.Init(sessionID, intro)
}

// Conversation retorna o historico da sessao ou, se ela nao existir, apenas a mensagem
// de boas-vindas. Nunca cria sessao.
func (s *ChatService) Conversation(sessionID string) []domain.Message {
	if sessionID != "" {
		if history, ok := s.store.Get(sessionID); ok {
			return history
		}
	}
	intro := IntroMessage()
	intro.CreatedAt = s.now()
	return []domain.Message{intro}
}

// EndSession descarta o historico da sessao. Retorna false se ela nao existia.
func (s *ChatService) EndSession(sessionID string) bool {
	if !s.store.Delete(sessionID) {
		return false
	}
	s.log.Info().Str("session", sessionID).Msg("sessão encerrada")
	return true
}

// SweepSessions remove periodicamente as sessoes paradas ate o contexto ser cancelado.
func (s *ChatService) SweepSessions(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.log.Info().
					Int("removed", removed).
					Int("open", s.store.Len()).
					Msg("sessões inativas removidas")
			}
		}
	}
}

// Ask responde a pergunta e grava a pergunta e a resposta no historico da sessao.
func (s *ChatService) Ask(sessionID, question string) (domain.Message, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return domain.Message{}, ErrEmptyQuestion
	}
	s.initSession(sessionID)

	resp := s.engine.Answer(trimmed)
	now := s.now()

	userMsg := domain.Message{
		ID:        "user-" + uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   trimmed,
		CreatedAt: now,
	}
	agentMsg := domain.Message{
		ID:        "agent-" + uuid.NewString(),
		Role:      domain.RoleAgent,
		Content:   resp.Answer,
		Response:  &resp,
		CreatedAt: now,
	}
	s.store.Append(sessionID, userMsg, agentMsg)

	evt := s.log.Info().
		Str("session", sessionID).
		Str("type", string(resp.Type))
	if resp.IsAnswer() {
		evt = evt.Str("entry", resp.Entry.Title).
			Str("confidence", string(resp.Confidence)).
			Strs("matched", resp.MatchedKeywords)
	}
	evt.Msg("pergunta respondida")

	return agentMsg, nil
}

// Transcript retorna o historico da sessao.
func (s *ChatService) Transcript(sessionID string) ([]domain.Message, bool) {
	return s.store.Get(sessionID)
}

// Categories resume a base por categoria.
func (s *ChatService) Categories() []knowledge.CategoryCount {
	return knowledge.Categories(s.base)
}

// EntryCount retorna quantas entradas a base possui.
func (s *ChatService) EntryCount() int {
	return len(s.base.Entries())
}
