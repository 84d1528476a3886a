package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"humanagent/internal/normalize"
	"humanagent/internal/utils"
)

// Sender entrega uma mensagem de texto a um numero de WhatsApp.
type Sender interface {
	SendMessage(ctx context.Context, number string, message string) error
}

// menuWords sao mensagens que abrem o menu em vez de consultar a base.
var menuWords = map[string]struct{}{
	"menu": {}, "menü": {}, "hilfe": {}, "help": {}, "start": {},
	"hallo": {}, "hi": {}, "hey": {}, "moin": {}, "servus": {}, "guten tag": {},
}

// MessageService atende as mensagens recebidas pelo webhook do WhatsApp.
type MessageService struct {
	chat   *ChatService
	sender Sender
	log    zerolog.Logger
}

// NewMessageService cria o servico do canal WhatsApp.
func NewMessageService(chat *ChatService, sender Sender, log zerolog.Logger) *MessageService {
	return &MessageService{chat: chat, sender: sender, log: log}
}

// ProcessMessage responde uma mensagem recebida: saudações abrem o menu,
// o resto é respondido pela base de conhecimento.
func (m *MessageService) ProcessMessage(ctx context.Context, number string, message string, name string) error {
	m.log.Info().Str("number", number).Str("name", name).Str("text", message).Msg("processando mensagem")

	normalized := normalize.Text(message)
	if _, ok := menuWords[normalized]; ok || normalized == "" {
		return m.send(ctx, number, utils.BuildMainMenu(name, m.chat.Categories(), StarterPrompts))
	}

	reply, err := m.chat.Ask(number, message)
	if err != nil {
		return fmt.Errorf("erro ao responder mensagem de %s: %w", number, err)
	}
	return m.send(ctx, number, utils.BuildAnswerMessage(*reply.Response))
}

func (m *MessageService) send(ctx context.Context, number, text string) error {
	if err := m.sender.SendMessage(ctx, number, text); err != nil {
		m.log.Error().Err(err).Str("number", number).Msg("erro ao enviar resposta")
		return err
	}
	return nil
}
