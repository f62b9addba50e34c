package domain

import (
	"github.com/3-da/sharedbudget-backend/internal/domain/auth"
	"github.com/3-da/sharedbudget-backend/internal/domain/finance"
	"github.com/3-da/sharedbudget-backend/internal/domain/household"
	"github.com/3-da/sharedbudget-backend/internal/domain/user"
)

// Flat aliases so callers can import a single types package.

type (
	User      = user.User
	UserToken = auth.UserToken

	Household              = household.Household
	HouseholdMember        = household.Member
	HouseholdInvitation    = household.Invitation
	DeletionRequest        = household.DeletionRequest
	PendingDeletionRequest = household.PendingDeletionRequest

	Expense      = finance.Expense
	SavingsGoal  = finance.SavingsGoal
	SalaryRecord = finance.SalaryRecord
)

type Role = household.Role

const (
	RoleOwner  = household.RoleOwner
	RoleMember = household.RoleMember

	DefaultMaxMembers = household.DefaultMaxMembers
)

type InvitationStatus = household.InvitationStatus

const (
	InvitationPending   = household.InvitationPending
	InvitationAccepted  = household.InvitationAccepted
	InvitationDeclined  = household.InvitationDeclined
	InvitationCancelled = household.InvitationCancelled
)
