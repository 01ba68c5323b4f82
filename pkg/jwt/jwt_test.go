package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignVerify_Roundtrip(t *testing.T) {
	signer := NewWebhookSigner("test-secret", time.Hour)
	jobID := uuid.New()

	token, err := signer.Sign(jobID)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	got, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != jobID {
		t.Fatalf("expected job id %s, got %s", jobID, got)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := NewWebhookSigner("test-secret", time.Hour)
	other := NewWebhookSigner("other-secret", time.Hour)

	token, err := signer.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestVerify_Garbage(t *testing.T) {
	signer := NewWebhookSigner("test-secret", time.Hour)
	if _, err := signer.Verify("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestVerify_Expired(t *testing.T) {
	signer := NewWebhookSigner("test-secret", 1)
	token, err := signer.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := signer.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
