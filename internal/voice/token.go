package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRealtimeEndpoint = "https://api.openai.com/v1/realtime/sessions"

// TokenClient mints ephemeral realtime credentials so the browser can talk
// to the voice provider directly without seeing the server API key.
type TokenClient struct {
	HTTPClient *http.Client
	APIKey     string
	Endpoint   string
	Model      string
	Voice      string
	Persona    string
}

func NewTokenClient(apiKey, model, voice, persona string) *TokenClient {
	return &TokenClient{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		APIKey:     apiKey,
		Endpoint:   defaultRealtimeEndpoint,
		Model:      model,
		Voice:      voice,
		Persona:    persona,
	}
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMS   int     `json:"prefix_padding_ms"`
	SilenceDurationMS int     `json:"silence_duration_ms"`
}

type toolDefinition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type sessionRequest struct {
	Model         string           `json:"model"`
	Voice         string           `json:"voice"`
	Instructions  string           `json:"instructions"`
	TurnDetection turnDetection    `json:"turn_detection"`
	Tools         []toolDefinition `json:"tools"`
}

// SessionToken is the ephemeral credential handed back to the caller.
type SessionToken struct {
	ID           string `json:"id"`
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
	Model string `json:"model"`
	Voice string `json:"voice"`
}

// Mint requests a new ephemeral session credential. The turn-detection
// thresholds are tuned for retail calls: cut speech after 140ms of silence
// so barge-ins land fast.
func (c *TokenClient) Mint(ctx context.Context) (*SessionToken, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("realtime api key missing")
	}

	reqBody, _ := json.Marshal(sessionRequest{
		Model:        c.Model,
		Voice:        c.Voice,
		Instructions: c.Persona,
		TurnDetection: turnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMS:   300,
			SilenceDurationMS: 140,
		},
		Tools: []toolDefinition{catalogSearchTool()},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("realtime session error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var token SessionToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// catalogSearchTool lets the remote realtime model call back into the
// catalog retrieval path instead of inventing product facts.
func catalogSearchTool() toolDefinition {
	return toolDefinition{
		Type:        "function",
		Name:        "buscar_catalogo",
		Description: "Busca productos, precios y disponibilidad en el catálogo de Civetta. Úsala siempre antes de responder sobre productos.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"consulta": map[string]any{
					"type":        "string",
					"description": "La consulta de la clienta sobre un producto",
				},
			},
			"required": []string{"consulta"},
		},
	}
}
