package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := Internal("store write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAsAppError(t *testing.T) {
	conflict := Conflict("slot taken")

	if got := AsAppError(conflict); got != conflict {
		t.Error("AsAppError should return the original AppError")
	}

	wrapped := fmt.Errorf("outer: %w", conflict)
	if got := AsAppError(wrapped); got != conflict {
		t.Error("AsAppError should unwrap to the inner AppError")
	}

	plain := errors.New("plain failure")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("plain errors should map to %s, got %s", CodeInternal, got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("converted error should wrap the original")
	}
}

func TestIsConflict(t *testing.T) {
	if !IsConflict(Conflict("slot taken")) {
		t.Error("Conflict error should satisfy IsConflict")
	}
	if !IsConflict(fmt.Errorf("wrapped: %w", Conflict("slot taken"))) {
		t.Error("wrapped Conflict should satisfy IsConflict")
	}
	if IsConflict(NotFound("Booking")) {
		t.Error("NotFound should not satisfy IsConflict")
	}
	if IsConflict(errors.New("plain")) {
		t.Error("plain error should not satisfy IsConflict")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Lane", "abc123")

	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail, got %v", err.Details)
	}
}
