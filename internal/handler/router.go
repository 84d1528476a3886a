package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RouterDeps reune os handlers montados pelo servidor. Webhook e opcional.
type RouterDeps struct {
	Chat    ChatService
	Webhook http.Handler
	Log     zerolog.Logger
	Timeout time.Duration
}

// NewRouter cria o roteador HTTP com todas as rotas.
func NewRouter(deps RouterDeps) http.Handler {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(deps.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "menschen-agent"})
	})

	page := NewPageHandler(deps.Chat, deps.Log)
	r.Get("/", page.Index)
	r.Post("/ask", page.Ask)

	api := NewChatHandler(deps.Chat, deps.Log)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", api.Ask)
		r.Get("/sessions/{id}/messages", api.Messages)
		r.Delete("/sessions/{id}", api.EndSession)
		r.Get("/knowledge/categories", api.Categories)
		r.Get("/starters", api.Starters)
	})

	if deps.Webhook != nil {
		r.Method(http.MethodPost, "/webhook", deps.Webhook)
	}
	return r
}

// requestLogger registra cada requisicao com o zerolog.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("requisição http")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
