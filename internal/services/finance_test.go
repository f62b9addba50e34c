package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFinanceRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	loner := env.registerUser(t, "loner@example.com")

	_, err := env.finance.AddExpense(ctx, loner.ID, "coffee", "food", 400, time.Time{})
	wantStatus(t, err, http.StatusNotFound)

	_, err = env.finance.Summary(ctx, loner.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestFinanceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	env.createHousehold(t, owner.ID, "My Home", 5)

	_, err := env.finance.AddExpense(ctx, owner.ID, "", "food", 400, time.Time{})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = env.finance.AddExpense(ctx, owner.ID, "coffee", "food", 0, time.Time{})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = env.finance.AddSavingsGoal(ctx, owner.ID, "trip", -1, 0)
	wantStatus(t, err, http.StatusBadRequest)
	_, err = env.finance.AddSalaryRecord(ctx, owner.ID, 100000, "March 2026")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestExpenseOwnershipScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	expense, err := env.finance.AddExpense(ctx, owner.ID, "rent", "housing", 120000, time.Time{})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	// Household members see each other's expenses but cannot delete them.
	list, err := env.finance.ListExpenses(ctx, member.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("want 1 expense visible to member, got %d", len(list))
	}
	err = env.finance.DeleteExpense(ctx, member.ID, expense.ID)
	wantStatus(t, err, http.StatusNotFound)

	if err := env.finance.DeleteExpense(ctx, owner.ID, expense.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	err = env.finance.DeleteExpense(ctx, owner.ID, uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestSummaryCacheLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	env.createHousehold(t, owner.ID, "My Home", 5)

	if _, err := env.finance.AddExpense(ctx, owner.ID, "rent", "housing", 120000, time.Time{}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := env.finance.AddSavingsGoal(ctx, owner.ID, "trip", 500000, 20000); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if _, err := env.finance.AddSalaryRecord(ctx, owner.ID, 300000, "2026-08"); err != nil {
		t.Fatalf("add salary: %v", err)
	}

	summary, err := env.finance.Summary(ctx, owner.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ExpenseCents != 120000 || summary.SavedCents != 20000 || summary.SalaryCents != 300000 {
		t.Fatalf("summary totals %+v", summary)
	}
	if summary.MemberCount != 1 {
		t.Fatalf("member count %d, want 1", summary.MemberCount)
	}

	// Served from cache while nothing changes.
	again, err := env.finance.Summary(ctx, owner.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !again.GeneratedAt.Equal(summary.GeneratedAt) {
		t.Fatalf("expected cached summary, got regenerated one")
	}

	// A write invalidates the cache.
	if _, err := env.finance.AddExpense(ctx, owner.ID, "coffee", "food", 400, time.Time{}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	fresh, err := env.finance.Summary(ctx, owner.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if fresh.ExpenseCents != 120400 {
		t.Fatalf("expense total %d, want 120400", fresh.ExpenseCents)
	}
}
