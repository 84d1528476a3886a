package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type WebhookPayload struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
	Data      struct {
		Messages struct {
			Key struct {
				RemoteJid string `json:"remoteJid"`
				FromMe    bool   `json:"fromMe"`
				ID        string `json:"id"`
			} `json:"key"`
			MessageTimestamp int64  `json:"messageTimestamp"`
			PushName         string `json:"pushName"`
			Broadcast        bool   `json:"broadcast"`
			Message          struct {
				Conversation       string `json:"conversation"`
				MessageContextInfo any    `json:"messageContextInfo"`
			} `json:"message"`
			RemoteJid string `json:"remoteJid"`
			ID        string `json:"id"`
		} `json:"messages"`
	} `json:"data"`
}

// MessageProcessor responde mensagens vindas do WhatsApp.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, number string, message string, name string) error
}

// WebhookHandler recebe os eventos de mensagem da WaSenderAPI.
type WebhookHandler struct {
	processor MessageProcessor
	log       zerolog.Logger
}

// NewWebhookHandler cria o handler do webhook.
func NewWebhookHandler(processor MessageProcessor, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{processor: processor, log: log}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Metodo nao permitido", http.StatusMethodNotAllowed)
		return
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Erro ao ler body", http.StatusInternalServerError)
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		http.Error(w, "Erro ao decodificar a mensagem", http.StatusBadRequest)
		return
	}

	msg := payload.Data.Messages
	if msg.Key.FromMe || msg.Broadcast {
		w.WriteHeader(http.StatusOK)
		return
	}

	name := msg.PushName
	number := strings.Replace(msg.Key.RemoteJid, "@s.whatsapp.net", "", 1)
	text := msg.Message.Conversation
	if number == "" {
		http.Error(w, "Remetente ausente", http.StatusBadRequest)
		return
	}

	// A WaSender reenvia eventos sem 2xx, entao falhas de envio so sao registradas.
	if err := h.processor.ProcessMessage(r.Context(), number, text, name); err != nil {
		h.log.Error().Err(err).Str("number", number).Msg("erro ao processar mensagem do webhook")
	}
	w.WriteHeader(http.StatusOK)
}
