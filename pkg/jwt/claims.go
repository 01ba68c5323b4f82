package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// WebhookClaims are the claims carried by a per-job webhook token.
type WebhookClaims struct {
	JobID uuid.UUID `json:"job_id"`
	jwt.RegisteredClaims
}
