package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// WebhookSigner issues and verifies the tokens attached to AssemblyAI webhook
// requests. The token is set as the webhook auth header value at submission
// and echoed back by AssemblyAI when the transcript completes, so only
// webhooks for jobs we actually submitted are accepted.
type WebhookSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewWebhookSigner creates a signer with the given HMAC secret.
func NewWebhookSigner(secret string, ttl time.Duration) *WebhookSigner {
	if ttl <= 0 {
		// Transcription of long episodes can take a while; give webhooks a day.
		ttl = 24 * time.Hour
	}
	return &WebhookSigner{secret: []byte(secret), ttl: ttl}
}

// Sign creates a token bound to a single content job.
func (s *WebhookSigner) Sign(jobID uuid.UUID) (string, error) {
	now := time.Now()
	claims := WebhookClaims{
		JobID: jobID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "podcast-marketer",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign webhook token: %w", err)
	}
	return signed, nil
}

// Verify parses a webhook token and returns the job it was issued for.
func (s *WebhookSigner) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &WebhookClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid webhook token: %w", err)
	}

	claims, ok := token.Claims.(*WebhookClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid webhook token claims")
	}
	if claims.JobID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("webhook token missing job id")
	}
	return claims.JobID, nil
}
