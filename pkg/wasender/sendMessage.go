package wasender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client envia mensagens e configura o webhook na WaSenderAPI.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient cria um cliente autenticado com a chave da API.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SendMessage envia um texto para o numero informado.
func (c *Client) SendMessage(ctx context.Context, number string, message string) error {
	return c.post(ctx, "/api/send-message", map[string]any{
		"to":   number,
		"text": message,
	})
}

// SetWebhook registra a URL publica que recebera as mensagens.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.post(ctx, "/api/set-webhook", map[string]any{
		"url": url,
	})
}

func (c *Client) post(ctx context.Context, path string, payloadMap map[string]any) error {
	payload, err := json.Marshal(payloadMap)
	if err != nil {
		return fmt.Errorf("erro ao fazer marshal do payload da WaSender: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição para WaSender: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar requisição para WaSender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("WaSender retornou status não OK: %s. Detalhes: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
