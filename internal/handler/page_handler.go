package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/service"
	"humanagent/internal/utils"
)

// SessionCookie guarda o id da conversa do navegador.
const SessionCookie = "agent_session"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"confidence": utils.ConfidenceLabel,
	"join":       strings.Join,
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	EntryCount int
	Messages   []domain.Message
	Starters   []string
	Categories []knowledge.CategoryCount
	Error      string
}

// PageHandler renderiza a pagina de chat no servidor.
type PageHandler struct {
	chat ChatService
	log  zerolog.Logger
}

// NewPageHandler cria o handler da pagina.
func NewPageHandler(chat ChatService, log zerolog.Logger) *PageHandler {
	return &PageHandler{chat: chat, log: log}
}

// Index trata GET /. So mostra a conversa; a sessao nasce na primeira pergunta.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	h.render(w, http.StatusOK, id, "")
}

// Ask trata POST /ask vindo do formulario e redireciona de volta para a pagina.
func (h *PageHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	id := sessionID(w, r)

	_, err := h.chat.Ask(id, r.PostFormValue("question"))
	if errors.Is(err, service.ErrEmptyQuestion) {
		h.render(w, http.StatusBadRequest, id, "Bitte gib eine Frage ein.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("erro ao responder pergunta do formulário")
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, id, errMsg string) {
	data := pageData{
		EntryCount: h.chat.EntryCount(),
		Messages:   h.chat.Conversation(id),
		Starters:   service.StarterPrompts,
		Categories: h.chat.Categories(),
		Error:      errMsg,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log.Error().Err(err).Msg("erro ao renderizar página")
	}
}

// sessionID le o cookie de sessao ou grava um novo.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := service.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
