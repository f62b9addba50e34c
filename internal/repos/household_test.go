package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/repos/testutil"
)

func TestInviteCodeUniqueness(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewHouseholdRepo(db, log)

	first := testutil.SeedHousehold(t, ctx, db, "First", "CODE2345", 5)
	second := testutil.SeedHousehold(t, ctx, db, "Second", "CODE6789", 5)

	found, err := repo.GetByInviteCodes(ctx, nil, []string{"CODE2345"})
	if err != nil {
		t.Fatalf("get by invite code: %v", err)
	}
	if len(found) != 1 || found[0].ID != first.ID {
		t.Fatalf("lookup returned %v", found)
	}

	err = repo.UpdateInviteCode(ctx, nil, second.ID, "CODE2345")
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}

	if err := repo.UpdateInviteCode(ctx, nil, second.ID, "CODEAAAA"); err != nil {
		t.Fatalf("update invite code: %v", err)
	}
	found, err = repo.GetByInviteCodes(ctx, nil, []string{"CODE6789"})
	if err != nil {
		t.Fatalf("get by old invite code: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("old invite code still resolves")
	}
}

func TestMemberCountAndRoles(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewMemberRepo(db, log)

	owner := testutil.SeedUser(t, ctx, db, "owner@example.com")
	member := testutil.SeedUser(t, ctx, db, "member@example.com")
	household := testutil.SeedHousehold(t, ctx, db, "Home", "DDDD4444", 5)
	ownerRow := testutil.SeedMember(t, ctx, db, household.ID, owner.ID, types.RoleOwner)
	testutil.SeedMember(t, ctx, db, household.ID, member.ID, types.RoleMember)

	count, err := repo.CountByHouseholdID(ctx, nil, household.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count %d, want 2", count)
	}

	if err := repo.UpdateRole(ctx, nil, ownerRow.ID, types.RoleMember); err != nil {
		t.Fatalf("update role: %v", err)
	}
	rows, err := repo.GetByUserIDs(ctx, nil, []uuid.UUID{owner.ID})
	if err != nil {
		t.Fatalf("get by user ids: %v", err)
	}
	if len(rows) != 1 || rows[0].Role != types.RoleMember {
		t.Fatalf("role update not visible: %v", rows)
	}
}
