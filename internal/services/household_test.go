package services

import (
	"context"
	"net/http"
	"testing"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/utils"
)

func TestCreateHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")

	household := env.createHousehold(t, owner.ID, "My Home", 0)
	if household.MaxMembers != types.DefaultMaxMembers {
		t.Fatalf("max members %d, want default %d", household.MaxMembers, types.DefaultMaxMembers)
	}
	if len(household.InviteCode) != utils.InviteCodeLength {
		t.Fatalf("invite code %q has length %d", household.InviteCode, len(household.InviteCode))
	}
	if len(household.Members) != 1 {
		t.Fatalf("want 1 member, got %d", len(household.Members))
	}
	if household.Members[0].Role != types.RoleOwner {
		t.Fatalf("creator role %q, want OWNER", household.Members[0].Role)
	}

	_, err := env.household.Create(ctx, owner.ID, "Second Home", 0)
	wantStatus(t, err, http.StatusConflict)

	_, err = env.household.Create(ctx, env.registerUser(t, "other@example.com").ID, "", 0)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestJoinByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	joiner := env.registerUser(t, "joiner@example.com")

	household := env.createHousehold(t, owner.ID, "My Home", 5)

	_, err := env.household.JoinByCode(ctx, joiner.ID, "WRONGCDE")
	wantStatus(t, err, http.StatusNotFound)

	joined := env.joinHousehold(t, joiner.ID, household.InviteCode)
	if joined.ID != household.ID {
		t.Fatalf("joined household %s, want %s", joined.ID, household.ID)
	}
	if len(joined.Members) != 2 {
		t.Fatalf("want 2 members, got %d", len(joined.Members))
	}

	_, err = env.household.JoinByCode(ctx, joiner.ID, household.InviteCode)
	wantStatus(t, err, http.StatusConflict)
}

func TestJoinCapacityBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 3)

	// One below the cap: join succeeds.
	second := env.registerUser(t, "second@example.com")
	env.joinHousehold(t, second.ID, household.InviteCode)
	third := env.registerUser(t, "third@example.com")
	env.joinHousehold(t, third.ID, household.InviteCode)

	// At the cap: join fails.
	fourth := env.registerUser(t, "fourth@example.com")
	_, err := env.household.JoinByCode(ctx, fourth.ID, household.InviteCode)
	wantStatus(t, err, http.StatusConflict)
}

func TestLeaveHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	// Owner cannot walk out while others remain.
	err := env.household.Leave(ctx, owner.ID)
	wantStatus(t, err, http.StatusForbidden)

	if err := env.household.Leave(ctx, member.ID); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	if _, err := env.household.Get(ctx, member.ID); err == nil {
		t.Fatalf("expected no household for departed member")
	}

	// Sole owner leaving dissolves the household.
	if err := env.household.Leave(ctx, owner.ID); err != nil {
		t.Fatalf("owner leave: %v", err)
	}
	_, err = env.household.Get(ctx, owner.ID)
	wantStatus(t, err, http.StatusNotFound)

	err = env.household.Leave(ctx, owner.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	outsider := env.registerUser(t, "outsider@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	err := env.household.RemoveMember(ctx, owner.ID, owner.ID)
	wantStatus(t, err, http.StatusForbidden)

	err = env.household.RemoveMember(ctx, member.ID, owner.ID)
	wantStatus(t, err, http.StatusForbidden)

	err = env.household.RemoveMember(ctx, owner.ID, outsider.ID)
	wantStatus(t, err, http.StatusNotFound)

	if err := env.household.RemoveMember(ctx, owner.ID, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if got := len(env.memberRows(t, household.ID)); got != 1 {
		t.Fatalf("want 1 member after removal, got %d", got)
	}

	found := false
	for _, ev := range env.notifier.events {
		if ev == "member_removed:member@example.com" {
			found = true
		}
	}
	if !found {
		t.Fatalf("removed member was not notified: %v", env.notifier.events)
	}
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	err := env.household.TransferOwnership(ctx, owner.ID, owner.ID)
	wantStatus(t, err, http.StatusForbidden)

	err = env.household.TransferOwnership(ctx, member.ID, owner.ID)
	wantStatus(t, err, http.StatusForbidden)

	if err := env.household.TransferOwnership(ctx, owner.ID, member.ID); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}

	owners := 0
	for _, m := range env.memberRows(t, household.ID) {
		if m.Role == types.RoleOwner {
			owners++
			if m.UserID != member.ID {
				t.Fatalf("owner is %s, want %s", m.UserID, member.ID)
			}
		}
	}
	if owners != 1 {
		t.Fatalf("want exactly 1 owner, got %d", owners)
	}
}

func TestRegenerateInviteCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	_, err := env.household.RegenerateInviteCode(ctx, member.ID)
	wantStatus(t, err, http.StatusForbidden)

	code, err := env.household.RegenerateInviteCode(ctx, owner.ID)
	if err != nil {
		t.Fatalf("regenerate invite code: %v", err)
	}
	if code == household.InviteCode {
		t.Fatalf("invite code did not change")
	}

	// Old code no longer joins.
	stranger := env.registerUser(t, "stranger@example.com")
	_, err = env.household.JoinByCode(ctx, stranger.ID, household.InviteCode)
	wantStatus(t, err, http.StatusNotFound)
	env.joinHousehold(t, stranger.ID, code)
}

func TestOneMembershipPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	other := env.registerUser(t, "other@example.com")
	env.createHousehold(t, owner.ID, "First", 5)
	otherHousehold := env.createHousehold(t, other.ID, "Second", 5)

	// A user with a membership cannot join or create elsewhere.
	_, err := env.household.JoinByCode(ctx, owner.ID, otherHousehold.InviteCode)
	wantStatus(t, err, http.StatusConflict)

	// The unique index is the backstop when the pre-check is raced past.
	dup := &types.HouseholdMember{
		ID:          owner.ID,
		HouseholdID: otherHousehold.ID,
		UserID:      owner.ID,
		Role:        types.RoleMember,
	}
	if err := env.db.Create(dup).Error; err == nil {
		t.Fatalf("expected duplicate membership insert to fail")
	}
}
