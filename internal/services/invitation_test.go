package services

import (
	"context"
	"net/http"
	"testing"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
)

func TestInviteValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	target := env.registerUser(t, "target@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)
	env.joinHousehold(t, member.ID, household.InviteCode)

	// Only the owner may invite.
	_, err := env.invitation.Invite(ctx, member.ID, target.Email)
	wantStatus(t, err, http.StatusForbidden)

	// Unknown target email.
	_, err = env.invitation.Invite(ctx, owner.ID, "nobody@example.com")
	wantStatus(t, err, http.StatusNotFound)

	// Target already in a household.
	_, err = env.invitation.Invite(ctx, owner.ID, member.Email)
	wantStatus(t, err, http.StatusConflict)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if invitation.Status != types.InvitationPending {
		t.Fatalf("status %q, want PENDING", invitation.Status)
	}

	// Duplicate pending invitation for the same pair.
	_, err = env.invitation.Invite(ctx, owner.ID, target.Email)
	wantStatus(t, err, http.StatusConflict)
}

func TestInviteFullHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	member := env.registerUser(t, "member@example.com")
	target := env.registerUser(t, "target@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 2)
	env.joinHousehold(t, member.ID, household.InviteCode)

	_, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	wantStatus(t, err, http.StatusConflict)
}

func TestRespondAccept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	target := env.registerUser(t, "target@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 5)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	pending, err := env.invitation.ListPending(ctx, target.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != invitation.ID {
		t.Fatalf("pending list %v, want the invitation", pending)
	}

	if err := env.invitation.Respond(ctx, target.ID, invitation.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}

	joined, err := env.household.Get(ctx, target.ID)
	if err != nil {
		t.Fatalf("get household after accept: %v", err)
	}
	if joined.ID != household.ID {
		t.Fatalf("joined %s, want %s", joined.ID, household.ID)
	}

	pending, err = env.invitation.ListPending(ctx, target.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("want empty pending list after accept, got %d", len(pending))
	}

	// Terminal: a second response conflicts.
	err = env.invitation.Respond(ctx, target.ID, invitation.ID, false)
	wantStatus(t, err, http.StatusConflict)
}

func TestRespondDecline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	target := env.registerUser(t, "target@example.com")
	env.createHousehold(t, owner.ID, "My Home", 5)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if err := env.invitation.Respond(ctx, target.ID, invitation.ID, false); err != nil {
		t.Fatalf("decline: %v", err)
	}

	_, err = env.household.Get(ctx, target.ID)
	wantStatus(t, err, http.StatusNotFound)

	err = env.invitation.Respond(ctx, target.ID, invitation.ID, true)
	wantStatus(t, err, http.StatusConflict)
}

func TestRespondGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	target := env.registerUser(t, "target@example.com")
	bystander := env.registerUser(t, "bystander@example.com")
	env.createHousehold(t, owner.ID, "My Home", 5)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	err = env.invitation.Respond(ctx, bystander.ID, invitation.ID, true)
	wantStatus(t, err, http.StatusForbidden)

	err = env.invitation.Respond(ctx, target.ID, owner.ID, true)
	wantStatus(t, err, http.StatusNotFound)
}

func TestAcceptRechecksCapacityAndMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	target := env.registerUser(t, "target@example.com")
	filler := env.registerUser(t, "filler@example.com")
	household := env.createHousehold(t, owner.ID, "My Home", 2)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	// The household fills up while the invitation sits pending.
	env.joinHousehold(t, filler.ID, household.InviteCode)

	err = env.invitation.Respond(ctx, target.ID, invitation.ID, true)
	wantStatus(t, err, http.StatusConflict)

	// And a target who joined elsewhere in the meantime is also rejected.
	otherOwner := env.registerUser(t, "other@example.com")
	env.createHousehold(t, otherOwner.ID, "Big Home", 5)
	invitation2, err := env.invitation.Invite(ctx, otherOwner.ID, target.Email)
	if err != nil {
		t.Fatalf("second invite: %v", err)
	}
	thirdOwner := env.registerUser(t, "third@example.com")
	third := env.createHousehold(t, thirdOwner.ID, "Third Home", 5)
	env.joinHousehold(t, target.ID, third.InviteCode)

	err = env.invitation.Respond(ctx, target.ID, invitation2.ID, true)
	wantStatus(t, err, http.StatusConflict)
}

func TestCancelInvitation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "owner@example.com")
	target := env.registerUser(t, "target@example.com")
	env.createHousehold(t, owner.ID, "My Home", 5)

	invitation, err := env.invitation.Invite(ctx, owner.ID, target.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	err = env.invitation.Cancel(ctx, target.ID, invitation.ID)
	wantStatus(t, err, http.StatusForbidden)

	if err := env.invitation.Cancel(ctx, owner.ID, invitation.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	err = env.invitation.Respond(ctx, target.ID, invitation.ID, true)
	wantStatus(t, err, http.StatusConflict)

	err = env.invitation.Cancel(ctx, owner.ID, invitation.ID)
	wantStatus(t, err, http.StatusConflict)
}
