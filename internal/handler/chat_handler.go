package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/service"
)

// ChatService e o que os handlers de chat precisam do servico.
type ChatService interface {
	Conversation(sessionID string) []domain.Message
	EndSession(sessionID string) bool
	Ask(sessionID, question string) (domain.Message, error)
	Transcript(sessionID string) ([]domain.Message, bool)
	Categories() []knowledge.CategoryCount
	EntryCount() int
}

// ChatHandler expoe o chat como API JSON.
type ChatHandler struct {
	chat ChatService
	log  zerolog.Logger
}

// NewChatHandler cria o handler da API de chat.
func NewChatHandler(chat ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// AskRequest e o corpo de POST /api/ask.
type AskRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Question  string `json:"question"`
}

// AskResponse e a resposta de POST /api/ask.
type AskResponse struct {
	SessionID string         `json:"sessionId"`
	Message   domain.Message `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Ask trata POST /api/ask.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "corpo da requisição inválido"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = service.NewSessionID()
	}

	msg, err := h.chat.Ask(sessionID, req.Question)
	if errors.Is(err, service.ErrEmptyQuestion) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("erro ao responder pergunta")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "erro interno"})
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{SessionID: sessionID, Message: msg})
}

// Messages trata GET /api/sessions/{id}/messages.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	history, ok := h.chat.Transcript(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "sessão não encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// EndSession trata DELETE /api/sessions/{id}.
func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if !h.chat.EndSession(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "sessão não encontrada"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories trata GET /api/knowledge/categories.
func (h *ChatHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":    h.chat.EntryCount(),
		"categories": h.chat.Categories(),
	})
}

// Starters trata GET /api/starters.
func (h *ChatHandler) Starters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.StarterPrompts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
