package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/minhledev/podcast-marketer/pkg/config"
)

// GroqClient is a minimal client for Groq chat-completion calls
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if base == "" {
		base = os.Getenv("GROQ_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	return &GroqClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// SamplingConfig holds the completion knobs exposed to callers.
// Model falls back to the client's configured model when empty.
type SamplingConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// chatMessage is one message in a chat completion request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the shape for chat completion requests
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is a minimal response shape
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a system + user prompt pair to Groq and returns the
// assistant content. Every failure is reported as a *TransportError so callers
// can distinguish invocation failures from content validation failures.
func (g *GroqClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string, cfg SamplingConfig) (string, error) {
	model := cfg.Model
	if model == "" {
		model = g.model
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", &TransportError{Op: "marshal request", Err: err}
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &TransportError{Op: "chat completion", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &TransportError{
			Op:     "chat completion",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("groq returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &TransportError{Op: "decode response", Err: err}
	}
	if len(cr.Choices) == 0 {
		return "", &TransportError{Op: "chat completion", Err: fmt.Errorf("empty response from groq")}
	}
	return cr.Choices[0].Message.Content, nil
}
