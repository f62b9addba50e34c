package utils

import (
	"strings"
	"testing"
)

func TestNewInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewInviteCode()
		if err != nil {
			t.Fatalf("NewInviteCode: %v", err)
		}
		if len(code) != InviteCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), InviteCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(inviteCodeAlphabet, r) {
				t.Fatalf("code %q contains %q, not in alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Fatalf("expected mostly unique codes, got %d distinct out of 100", len(seen))
	}
}

func TestNewRequestID(t *testing.T) {
	a, err := NewRequestID()
	if err != nil {
		t.Fatalf("NewRequestID: %v", err)
	}
	b, err := NewRequestID()
	if err != nil {
		t.Fatalf("NewRequestID: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("request id %q has length %d, want 32 hex chars", a, len(a))
	}
	if a == b {
		t.Fatalf("two request ids collided: %q", a)
	}
	if strings.ToLower(a) != a {
		t.Fatalf("request id %q is not lowercase hex", a)
	}
}
