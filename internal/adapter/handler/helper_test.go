package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minhledev/podcast-marketer/errors"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/episodes/test", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleErrorSerializesDetails(t *testing.T) {
	c, rec := newTestContext(t)

	appErr := errors.ErrGenerationFailed(nil).WithDetail("last_error", "transcription error: audio unreachable")
	if err := HandleError(nil, c, appErr); err != nil {
		t.Fatalf("HandleError returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Message != "Content generation failed" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Details["last_error"] != "transcription error: audio unreachable" {
		t.Fatalf("detail not serialized, got %v", body.Details)
	}
}

func TestHandleErrorMapsAppErrorStatus(t *testing.T) {
	c, rec := newTestContext(t)

	if err := HandleError(nil, c, errors.ErrContentNotReady("ep-1")); err != nil {
		t.Fatalf("HandleError returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}

	var body struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Details["episode_id"] != "ep-1" {
		t.Fatalf("expected episode_id detail, got %v", body.Details)
	}
}

func TestHandleErrorUnknownErrorIsInternal(t *testing.T) {
	c, rec := newTestContext(t)

	if err := HandleError(nil, c, http.ErrBodyNotAllowed); err != nil {
		t.Fatalf("HandleError returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
