package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/minhledev/podcast-marketer/pkg/config"
)

// AssemblyAIClient is a minimal AssemblyAI REST client used for submitting
// transcription jobs. Completed transcripts are fetched through the official
// SDK in the content service.
type AssemblyAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{
		apiKey:  apiKey,
		baseURL: "https://api.assemblyai.com",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// TranscribeRequest is payload for /v2/transcript
type TranscribeRequest struct {
	AudioURL              string `json:"audio_url"`
	AutoChapters          bool   `json:"auto_chapters,omitempty"`
	LanguageDetection     bool   `json:"language_detection,omitempty"`
	WebhookURL            string `json:"webhook_url,omitempty"`
	WebhookAuthHeaderName string `json:"webhook_auth_header_name,omitempty"`
	WebhookAuthHeaderVal  string `json:"webhook_auth_header_value,omitempty"`
}

// TranscribeResponse is minimal response
type TranscribeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TranscribeAudio requests AssemblyAI to transcribe an external audio URL with
// automatic chapter segmentation. The webhook auth header value travels back
// on the completion webhook so the handler can authenticate it.
// Returns the transcript job id on success.
func (c *AssemblyAIClient) TranscribeAudio(ctx context.Context, audioURL, webhookURL, webhookToken string) (string, error) {
	payload := TranscribeRequest{
		AudioURL:          audioURL,
		AutoChapters:      true,
		LanguageDetection: true,
		WebhookURL:        webhookURL,
	}
	if webhookToken != "" {
		payload.WebhookAuthHeaderName = "X-Webhook-Token"
		payload.WebhookAuthHeaderVal = webhookToken
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/transcript", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("assemblyai returned status %d", resp.StatusCode)
	}

	var tr TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.ID, nil
}
