package app

import (
	httpH "github.com/3-da/sharedbudget-backend/internal/http/handlers"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
)

type Handlers struct {
	Auth       *httpH.AuthHandler
	Household  *httpH.HouseholdHandler
	Invitation *httpH.InvitationHandler
	Account    *httpH.AccountHandler
	Finance    *httpH.FinanceHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		Household:  httpH.NewHouseholdHandler(serviceset.Household),
		Invitation: httpH.NewInvitationHandler(serviceset.Invitation),
		Account:    httpH.NewAccountHandler(serviceset.Account),
		Finance:    httpH.NewFinanceHandler(serviceset.Finance),
		Health:     httpH.NewHealthHandler(),
	}
}
