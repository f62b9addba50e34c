package app

import (
	internalhttp "github.com/3-da/sharedbudget-backend/internal/http"
)

func wireRouter(handlerset Handlers, middleware Middleware) *internalhttp.Server {
	return internalhttp.NewServer(internalhttp.RouterConfig{
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    middleware.Auth,
		HouseholdHandler:  handlerset.Household,
		InvitationHandler: handlerset.Invitation,
		AccountHandler:    handlerset.Account,
		FinanceHandler:    handlerset.Finance,
		HealthHandler:     handlerset.Health,
	})
}
