package household

import (
	"time"

	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/domain/user"
)

const DefaultMaxMembers = 10

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Household struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	InviteCode string    `gorm:"uniqueIndex;not null;column:invite_code" json:"invite_code"`
	MaxMembers int       `gorm:"not null;column:max_members" json:"max_members"`

	Members []Member `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Household) TableName() string { return "household" }

// Member binds exactly one user to exactly one household. The unique index on
// user_id is the system-wide "one membership per user" invariant; concurrent
// joins lose the race at this index, not at the service-level pre-check.
type Member struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID  `gorm:"index;not null;column:household_id" json:"household_id"`
	UserID      uuid.UUID  `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Role        Role       `gorm:"not null" json:"role"`
	JoinedAt    time.Time  `gorm:"not null;column:joined_at" json:"joined_at"`
}

func (Member) TableName() string { return "household_member" }

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationDeclined  InvitationStatus = "DECLINED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

// Invitation is the durable targeted invite. Status is terminal once it
// leaves PENDING; rows are never deleted.
type Invitation struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID  uuid.UUID        `gorm:"index;not null;column:household_id" json:"household_id"`
	SenderID     uuid.UUID        `gorm:"not null;column:sender_id" json:"sender_id"`
	TargetUserID uuid.UUID        `gorm:"index;not null;column:target_user_id" json:"target_user_id"`
	Status       InvitationStatus `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
}

func (Invitation) TableName() string { return "household_invitation" }
