package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr struct {
	code int
}

func (e *statusErr) Error() string       { return fmt.Sprintf("http %d", e.code) }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"rate limited", &statusErr{code: http.StatusTooManyRequests}, true},
		{"request timeout", &statusErr{code: http.StatusRequestTimeout}, true},
		{"server error", &statusErr{code: http.StatusBadGateway}, true},
		{"client error", &statusErr{code: http.StatusBadRequest}, false},
		{"wrapped server error", fmt.Errorf("send: %w", &statusErr{code: http.StatusServiceUnavailable}), true},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: Retryable = %t, want %t", c.name, got, c.want)
		}
	}
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")

	got := Backoff(resp, time.Second, 10*time.Second)
	if got < 2400*time.Millisecond || got > 3600*time.Millisecond {
		t.Fatalf("got %s, want 3s with up to 20%% jitter", got)
	}
}

func TestBackoffCapped(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "120")

	got := Backoff(resp, time.Second, 10*time.Second)
	if got > 12*time.Second {
		t.Fatalf("got %s, want at most the 10s cap plus jitter", got)
	}

	if got := Backoff(nil, 4*time.Second, 10*time.Second); got < 3200*time.Millisecond || got > 4800*time.Millisecond {
		t.Fatalf("got %s, want base 4s with up to 20%% jitter", got)
	}
}
