package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/apierr"
	"github.com/3-da/sharedbudget-backend/internal/platform/kvstore"
	"github.com/3-da/sharedbudget-backend/internal/repos"
	"github.com/3-da/sharedbudget-backend/internal/repos/testutil"
)

// recordingNotifier captures notification calls instead of sending email.
type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) MemberRemoved(ctx context.Context, email, householdName string) error {
	r.events = append(r.events, "member_removed:"+email)
	return nil
}

func (r *recordingNotifier) InvitationReceived(ctx context.Context, email, senderName, householdName string) error {
	r.events = append(r.events, "invitation_received:"+email)
	return nil
}

func (r *recordingNotifier) InvitationResponded(ctx context.Context, email, targetName, householdName string, accepted bool) error {
	r.events = append(r.events, fmt.Sprintf("invitation_responded:%s:%t", email, accepted))
	return nil
}

func (r *recordingNotifier) DeletionRequested(ctx context.Context, email, ownerName, householdName string) error {
	r.events = append(r.events, "deletion_requested:"+email)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	kv       *kvstore.MemoryStore
	notifier *recordingNotifier

	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	memberRepo    repos.MemberRepo
	financeRepo   repos.FinanceRepo

	auth       AuthService
	household  HouseholdService
	invitation InvitationService
	account    AccountService
	finance    FinanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	kv := kvstore.NewMemoryStore()
	notifier := &recordingNotifier{}

	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	householdRepo := repos.NewHouseholdRepo(db, log)
	memberRepo := repos.NewMemberRepo(db, log)
	invitationRepo := repos.NewInvitationRepo(db, log)
	financeRepo := repos.NewFinanceRepo(db, log)

	auth := NewAuthService(db, log, userRepo, userTokenRepo, "test-secret", time.Hour, 24*time.Hour)

	return &testEnv{
		db:            db,
		kv:            kv,
		notifier:      notifier,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		memberRepo:    memberRepo,
		financeRepo:   financeRepo,
		auth:          auth,
		household:     NewHouseholdService(db, log, kv, userRepo, householdRepo, memberRepo, financeRepo, notifier),
		invitation:    NewInvitationService(db, log, userRepo, householdRepo, memberRepo, invitationRepo, notifier),
		account:       NewAccountService(db, log, kv, userRepo, householdRepo, memberRepo, financeRepo, auth, notifier, time.Hour),
		finance:       NewFinanceService(db, log, kv, memberRepo, financeRepo),
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) *types.User {
	t.Helper()
	user := &types.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}
	if err := e.auth.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	access, _, err := e.auth.LoginUser(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return access
}

func (e *testEnv) createHousehold(t *testing.T, userID uuid.UUID, name string, maxMembers int) *types.Household {
	t.Helper()
	household, err := e.household.Create(context.Background(), userID, name, maxMembers)
	if err != nil {
		t.Fatalf("create household %s: %v", name, err)
	}
	return household
}

func (e *testEnv) joinHousehold(t *testing.T, userID uuid.UUID, inviteCode string) *types.Household {
	t.Helper()
	household, err := e.household.JoinByCode(context.Background(), userID, inviteCode)
	if err != nil {
		t.Fatalf("join household: %v", err)
	}
	return household
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected business error with status %d, got nil", status)
	}
	appErr := apierr.From(err)
	if appErr == nil {
		t.Fatalf("expected business error with status %d, got %v", status, err)
	}
	if appErr.Status != status {
		t.Fatalf("got status %d (code %q), want %d", appErr.Status, appErr.Code, status)
	}
}

func (e *testEnv) findUserUnscoped(t *testing.T, userID uuid.UUID) *types.User {
	t.Helper()
	var user types.User
	if err := e.db.Unscoped().Where("id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("find user unscoped: %v", err)
	}
	return &user
}

func (e *testEnv) memberRows(t *testing.T, householdID uuid.UUID) []*types.HouseholdMember {
	t.Helper()
	members, err := e.memberRepo.GetByHouseholdIDs(context.Background(), nil, []uuid.UUID{householdID})
	if err != nil {
		t.Fatalf("get members: %v", err)
	}
	return members
}
