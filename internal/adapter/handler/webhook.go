package handler

import (
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minhledev/podcast-marketer/errors"
	contentuse "github.com/minhledev/podcast-marketer/internal/usecase/content"
)

// WebhookTokenHeader carries the per-job token set at transcription
// submission and echoed back by AssemblyAI.
const WebhookTokenHeader = "X-Webhook-Token"

// WebhookHandler handles incoming webhooks from the transcription provider
type WebhookHandler struct {
	svc    contentuse.Service
	logger *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(svc contentuse.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, logger: logger}
}

// HandleAssemblyAIWebhook receives transcript status webhooks
func (h *WebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	token := c.Request().Header.Get(WebhookTokenHeader)
	if token == "" {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if err := h.svc.HandleTranscriptionWebhook(c.Request().Context(), token, body); err != nil {
		if h.logger != nil {
			h.logger.Error("webhook handler error", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
}
