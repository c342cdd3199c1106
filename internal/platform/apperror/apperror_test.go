package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var errTestRegion = InvalidArgument(CodeUnknownRegion, "unknown region")

func TestError_IsFamilyAfterWrapping(t *testing.T) {
	err := fmt.Errorf("%w: %q", errTestRegion, "Atlantis")

	if !errors.Is(err, errTestRegion) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("expected wrapped error to match ErrInvalidArgument")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("did not expect wrapped error to match ErrNotFound")
	}
	if err.Error() != `unknown region: "Atlantis"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrap: %w", errTestRegion)); got != CodeUnknownRegion {
		t.Errorf("CodeOf = %s, want %s", got, CodeUnknownRegion)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, CodeInternal)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", InvalidArgument(CodeInvalidCount, "bad"), http.StatusBadRequest},
		{"not found", NotFound(CodeNotFound, "missing"), http.StatusNotFound},
		{"conflict", Conflict(CodeConflict, "taken"), http.StatusConflict},
		{"forbidden", Forbidden(CodeForbidden, "nope"), http.StatusForbidden},
		{"internal", Internal(CodeMalformedDirectory, "broken"), http.StatusInternalServerError},
		{"echo", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRender_HidesInternalMessages(t *testing.T) {
	status, body := Render(errors.New("database password is hunter2"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != "internal server error" {
		t.Errorf("internal message leaked: %q", body.Message)
	}
}

func TestRender_Details(t *testing.T) {
	err := InvalidArgument(CodeInvalidArgument, "request body failed validation").WithDetails("severity: is required")
	status, body := Render(err)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(body.Details) != 1 || body.Details[0] != "severity: is required" {
		t.Errorf("unexpected details %v", body.Details)
	}
}

func TestHTTPErrorHandler_WritesJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-1")

	HTTPErrorHandler(zerolog.Nop())(fmt.Errorf("%w: %q", errTestRegion, "Atlantis"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != CodeUnknownRegion {
		t.Errorf("expected code %s, got %s", CodeUnknownRegion, body.Code)
	}
	if body.RequestID != "req-1" {
		t.Errorf("expected request id req-1, got %q", body.RequestID)
	}
}
