package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"humanagent/config"
	"humanagent/internal/agent"
	"humanagent/internal/handler"
	"humanagent/internal/service"
	"humanagent/internal/sessions"
	"humanagent/pkg/wasender"
)

const shutdownTimeout = 10 * time.Second

// sweepInterval varre as sessoes quatro vezes por TTL, no minimo a cada segundo.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Second)
}

func newServeCmd(app *App) *cobra.Command {
	var useNgrok bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia o servidor HTTP (página, API e webhook do WhatsApp)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, app, useNgrok)
		},
	}

	cmd.Flags().BoolVar(&useNgrok, "ngrok", false, "Abre um túnel ngrok e registra a URL como webhook da WaSender")
	return cmd
}

func runServe(ctx context.Context, app *App, useNgrok bool) error {
	cfg := app.Config
	log := app.Log

	base, err := loadBase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("erro ao carregar a base de conhecimento: %w", err)
	}

	store := sessions.NewStore(cfg.TranscriptLimit,
		sessions.WithMaxSessions(cfg.MaxSessions),
		sessions.WithIdleTTL(cfg.SessionTTL),
	)
	chat := service.NewChatService(agent.New(base), base, store, log)
	go chat.SweepSessions(ctx, sweepInterval(cfg.SessionTTL))
	deps := handler.RouterDeps{Chat: chat, Log: log}

	var wa *wasender.Client
	if cfg.WhatsAppEnabled() {
		wa = wasender.NewClient(cfg.ApiKey, cfg.WaSenderBaseURL)
		deps.Webhook = handler.NewWebhookHandler(service.NewMessageService(chat, wa, log), log)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("port", cfg.Port).
		Str("knowledge_source", cfg.KnowledgeSource).
		Int("entries", base.Len()).
		Bool("whatsapp", wa != nil).
		Msg("iniciando servidor")

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	if useNgrok {
		registerTunnel(ctx, app, wa)
	}

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("erro ao iniciar o servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("sinal de desligamento recebido")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("falha no desligamento gracioso")
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("falha ao forçar o desligamento")
		}
	}

	log.Info().Msg("servidor parado")
	return nil
}

// registerTunnel expoe o servidor pelo ngrok e aponta o webhook da WaSender para ele.
// Falhas sao registradas e o servidor segue atendendo localmente.
func registerTunnel(ctx context.Context, app *App, wa *wasender.Client) {
	url, err := config.StartNgrok(ctx, app.Config.Port, app.Config.NgrokAPIURL)
	if err != nil {
		app.Log.Error().Err(err).Msg("erro ao iniciar o ngrok")
		return
	}
	app.Log.Info().Str("url", url).Msg("túnel ngrok ativo")

	if wa == nil {
		app.Log.Warn().Msg("WASENDER_API_KEY ausente, webhook não registrado")
		return
	}
	if err := wa.SetWebhook(ctx, url+"/webhook"); err != nil {
		app.Log.Error().Err(err).Msg("erro ao registrar webhook na WaSender")
		return
	}
	app.Log.Info().Str("webhook", url+"/webhook").Msg("webhook registrado")
}
