// Package httpx holds small retry helpers for hand-rolled HTTP API clients.
package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusCoder surfaces the HTTP status behind a client error without an
// import of the client package.
type StatusCoder interface {
	HTTPStatusCode() int
}

// Retryable reports whether the request that produced err is worth another
// attempt: timeouts, transient network failures, 408/429 and 5xx responses.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.HTTPStatusCode()
		if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
			return true
		}
		return code >= 500 && code <= 599
	}
	return false
}

// Backoff picks the next sleep: the server's Retry-After header when present,
// otherwise base, capped at max and jittered by up to 20% either way.
func Backoff(resp *http.Response, base, max time.Duration) time.Duration {
	sleepFor := base
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return jitter(sleepFor)
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	f := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(d) * f)
}
