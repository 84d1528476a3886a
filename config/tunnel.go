package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

// ErrNoHTTPSTunnel indica que o ngrok nao expos nenhum tunel HTTPS.
var ErrNoHTTPSTunnel = errors.New("nenhum túnel HTTPS encontrado")

type tunnelList struct {
	Tunnels []struct {
		Proto     string `json:"proto"`
		PublicURL string `json:"public_url"`
	} `json:"tunnels"`
}

// StartNgrok inicia o ngrok para a porta informada e retorna a URL publica HTTPS.
// O processo continua rodando ate o cancelamento do contexto.
func StartNgrok(ctx context.Context, port, apiURL string) (string, error) {
	cmd := exec.CommandContext(ctx, "ngrok", "http", port)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("erro ao iniciar o ngrok: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 10; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
		url, err := DiscoverTunnelURL(ctx, apiURL)
		if err == nil {
			return url, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// DiscoverTunnelURL consulta a API local do ngrok e retorna a URL do tunel HTTPS.
func DiscoverTunnelURL(ctx context.Context, apiURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(apiURL, "/")+"/api/tunnels", nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro ao consultar API do ngrok: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API do ngrok retornou status %s", resp.Status)
	}

	var result tunnelList
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("erro ao decodificar túneis do ngrok: %w", err)
	}

	for _, t := range result.Tunnels {
		if t.Proto == "https" && t.PublicURL != "" {
			return t.PublicURL, nil
		}
	}
	return "", ErrNoHTTPSTunnel
}
