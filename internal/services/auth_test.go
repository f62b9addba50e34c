package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/requestdata"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		user types.User
	}{
		{"bad email", types.User{Email: "not-an-email", FirstName: "A", LastName: "B", Password: "password123"}},
		{"short password", types.User{Email: "a@example.com", FirstName: "A", LastName: "B", Password: "short"}},
		{"missing name", types.User{Email: "a@example.com", Password: "password123"}},
	}
	for _, c := range cases {
		err := env.auth.RegisterUser(ctx, &c.user)
		wantStatus(t, err, http.StatusBadRequest)
	}

	env.registerUser(t, "taken@example.com")
	err := env.auth.RegisterUser(ctx, &types.User{
		Email: "Taken@Example.com", FirstName: "A", LastName: "B", Password: "password123",
	})
	wantStatus(t, err, http.StatusConflict)
}

func TestLoginAndSessionCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "user@example.com")

	_, _, err := env.auth.LoginUser(ctx, "user@example.com", "wrongpassword")
	wantStatus(t, err, http.StatusUnauthorized)

	access := env.login(t, user.Email)

	authed, err := env.auth.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context from token: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data not attached for %s", user.ID)
	}

	_, err = env.auth.SetContextFromToken(ctx, "not-a-jwt")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestInvalidateAllSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "user@example.com")
	access := env.login(t, user.Email)

	count, err := env.auth.InvalidateAllSessions(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("invalidate sessions: %v", err)
	}
	if count != 1 {
		t.Fatalf("invalidated %d sessions, want 1", count)
	}

	// The JWT itself is unexpired, but the session row is gone.
	_, err = env.auth.SetContextFromToken(ctx, access)
	wantStatus(t, err, http.StatusUnauthorized)

	count, err = env.auth.InvalidateAllSessions(ctx, nil, uuid.New())
	if err != nil {
		t.Fatalf("invalidate sessions for unknown user: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalidated %d sessions for unknown user, want 0", count)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "user@example.com")

	_, refresh, err := env.auth.LoginUser(ctx, user.Email, "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := env.auth.RefreshUser(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatalf("refresh returned empty tokens")
	}

	// The old refresh token was rotated out.
	_, _, err = env.auth.RefreshUser(ctx, refresh)
	wantStatus(t, err, http.StatusUnauthorized)
}
