package household

import (
	"time"

	"github.com/google/uuid"
)

// DeletionRequest is the delegation protocol's transient record. It lives
// only in the TTL store, never in postgres: the payload key is authoritative,
// the two index keys are advisory and may outlive it.
type DeletionRequest struct {
	RequestID      string    `json:"request_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	TargetMemberID uuid.UUID `json:"target_member_id"`
	HouseholdID    uuid.UUID `json:"household_id"`
	RequestedAt    time.Time `json:"requested_at"`
}

// PendingDeletionRequest is the hydrated view returned to the target member.
type PendingDeletionRequest struct {
	RequestID      string    `json:"request_id"`
	OwnerFirstName string    `json:"owner_first_name"`
	OwnerLastName  string    `json:"owner_last_name"`
	OwnerEmail     string    `json:"owner_email"`
	HouseholdName  string    `json:"household_name"`
	RequestedAt    time.Time `json:"requested_at"`
}
