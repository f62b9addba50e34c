package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHelpersCarryStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{NotFound("x", "m"), http.StatusNotFound},
		{Conflict("x", "m"), http.StatusConflict},
		{Forbidden("x", "m"), http.StatusForbidden},
		{BadRequest("x", "m"), http.StatusBadRequest},
		{Unauthorized("x", "m"), http.StatusUnauthorized},
	}
	for _, c := range cases {
		if c.err.Status != c.status {
			t.Fatalf("code %q: status %d, want %d", c.err.Code, c.err.Status, c.status)
		}
		if c.err.Error() != "m" {
			t.Fatalf("code %q: message %q, want %q", c.err.Code, c.err.Error(), "m")
		}
	}
}

func TestFromUnwrapsChain(t *testing.T) {
	base := Conflict("household_full", "full")
	wrapped := fmt.Errorf("join household: %w", base)

	got := From(wrapped)
	if got == nil {
		t.Fatalf("From returned nil for wrapped business error")
	}
	if got.Status != http.StatusConflict || got.Code != "household_full" {
		t.Fatalf("got status=%d code=%q", got.Status, got.Code)
	}

	if From(errors.New("plain infra failure")) != nil {
		t.Fatalf("From should return nil for non-business errors")
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
