package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      Conflict("Slot is already booked"),
			expected: "CONFLICT: Slot is already booked",
		},
		{
			name:     "with cause",
			err:      Internal("Failed to write lease", fmt.Errorf("connection reset")),
			expected: "INTERNAL_ERROR: Failed to write lease (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"hold expired", HoldExpired("gone"), CodeHoldExpired, http.StatusGone},
		{"hold mismatch", HoldMismatch("tampered"), CodeHoldMismatch, http.StatusConflict},
		{"outside hours", OutsideBusinessHours("closed"), CodeOutsideHours, http.StatusUnprocessableEntity},
		{"resource inactive", ResourceInactive("abc"), CodeResourceInactive, http.StatusUnprocessableEntity},
		{"unavailable", Unavailable("lease store", errors.New("down")), CodeUnavailable, http.StatusServiceUnavailable},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := Unavailable("booking store", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIsCode(t *testing.T) {
	err := Conflict("slot taken")

	if !IsCode(err, CodeConflict) {
		t.Error("expected IsCode to match CONFLICT")
	}
	if IsCode(err, CodeHoldExpired) {
		t.Error("did not expect IsCode to match HOLD_EXPIRED")
	}
	if IsCode(errors.New("plain"), CodeConflict) {
		t.Error("plain errors must never match an app code")
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("Code = %q, want %q", appErr.Code, CodeInternal)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected the original error to be preserved as cause")
	}
}

func TestToJSONOmitsInternals(t *testing.T) {
	err := Internal("Failed to sweep leases", errors.New("secret dsn"))

	var decoded map[string]any
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("unexpected unmarshal error: %v", jsonErr)
	}
	if _, ok := decoded["err"]; ok {
		t.Error("serialized error must not leak the wrapped cause")
	}
	if decoded["code"] != CodeInternal {
		t.Errorf("code = %v, want %q", decoded["code"], CodeInternal)
	}
}
