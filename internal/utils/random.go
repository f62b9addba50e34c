package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// inviteCodeAlphabet avoids characters that read ambiguously (0/O, 1/I/L).
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 8

// NewInviteCode returns a short random household invite code. Collisions are
// possible and accepted; the unique index on household.invite_code is the
// arbiter and callers retry on a duplicate-key error.
func NewInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	out := make([]byte, InviteCodeLength)
	for i, b := range buf {
		out[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(out), nil
}

// NewRequestID returns 128 bits of randomness, hex-encoded. Used for
// deletion delegation requests, which must be unguessable.
func NewRequestID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
