package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/repos/testutil"
)

func TestTotalsByHouseholdID(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewFinanceRepo(db, log)

	owner := testutil.SeedUser(t, ctx, db, "owner@example.com")
	member := testutil.SeedUser(t, ctx, db, "member@example.com")
	household := testutil.SeedHousehold(t, ctx, db, "Home", "AAAA2222", 5)
	testutil.SeedMember(t, ctx, db, household.ID, owner.ID, types.RoleOwner)
	testutil.SeedMember(t, ctx, db, household.ID, member.ID, types.RoleMember)

	testutil.SeedExpense(t, ctx, db, household.ID, owner.ID, 1000)
	testutil.SeedExpense(t, ctx, db, household.ID, member.ID, 2500)

	if _, err := repo.CreateSavingsGoals(ctx, nil, []*types.SavingsGoal{{
		ID: uuid.New(), UserID: owner.ID, HouseholdID: household.ID,
		Name: "trip", TargetCents: 10000, SavedCents: 4000,
	}}); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := repo.CreateSalaryRecords(ctx, nil, []*types.SalaryRecord{{
		ID: uuid.New(), UserID: member.ID, HouseholdID: household.ID,
		AmountCents: 300000, Month: "2026-08",
	}}); err != nil {
		t.Fatalf("create salary: %v", err)
	}

	totals, err := repo.TotalsByHouseholdID(ctx, nil, household.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.ExpenseCents != 3500 || totals.SavedCents != 4000 || totals.SalaryCents != 300000 {
		t.Fatalf("totals %+v", totals)
	}

	// Empty household sums to zero, not NULL.
	empty, err := repo.TotalsByHouseholdID(ctx, nil, uuid.New())
	if err != nil {
		t.Fatalf("totals empty: %v", err)
	}
	if empty.ExpenseCents != 0 || empty.SavedCents != 0 || empty.SalaryCents != 0 {
		t.Fatalf("empty totals %+v", empty)
	}
}

func TestDeleteByUserAndHousehold(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewFinanceRepo(db, log)

	owner := testutil.SeedUser(t, ctx, db, "owner@example.com")
	member := testutil.SeedUser(t, ctx, db, "member@example.com")
	household := testutil.SeedHousehold(t, ctx, db, "Home", "BBBB3333", 5)
	testutil.SeedMember(t, ctx, db, household.ID, owner.ID, types.RoleOwner)
	testutil.SeedMember(t, ctx, db, household.ID, member.ID, types.RoleMember)

	testutil.SeedExpense(t, ctx, db, household.ID, owner.ID, 1000)
	testutil.SeedExpense(t, ctx, db, household.ID, member.ID, 2500)

	if err := repo.DeleteByUserAndHousehold(ctx, nil, member.ID, household.ID); err != nil {
		t.Fatalf("delete by user and household: %v", err)
	}

	expenses, err := repo.ListExpensesByHouseholdID(ctx, nil, household.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].UserID != owner.ID {
		t.Fatalf("scrub touched the wrong rows: %v", expenses)
	}
}
