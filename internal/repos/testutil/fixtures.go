package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedHousehold(tb testing.TB, ctx context.Context, tx *gorm.DB, name, inviteCode string, maxMembers int) *types.Household {
	tb.Helper()
	h := &types.Household{
		ID:         uuid.New(),
		Name:       name,
		InviteCode: inviteCode,
		MaxMembers: maxMembers,
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed household: %v", err)
	}
	return h
}

func SeedMember(tb testing.TB, ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID, role types.Role) *types.HouseholdMember {
	tb.Helper()
	m := &types.HouseholdMember{
		ID:          uuid.New(),
		HouseholdID: householdID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed member: %v", err)
	}
	return m
}

func SeedExpense(tb testing.TB, ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID, amountCents int64) *types.Expense {
	tb.Helper()
	e := &types.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		HouseholdID: householdID,
		Title:       "groceries",
		AmountCents: amountCents,
		SpentAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed expense: %v", err)
	}
	return e
}
