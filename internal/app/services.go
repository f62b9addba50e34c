package app

import (
	"gorm.io/gorm"

	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Household  services.HouseholdService
	Invitation services.InvitationService
	Account    services.AccountService
	Finance    services.FinanceService
	Notifier   services.Notifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	notifier := services.NewEmailNotifier(log, clients.Mail)

	auth := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	household := services.NewHouseholdService(
		db, log, clients.KV,
		reposet.User, reposet.Household, reposet.Member, reposet.Finance,
		notifier,
	)
	invitation := services.NewInvitationService(
		db, log,
		reposet.User, reposet.Household, reposet.Member, reposet.Invitation,
		notifier,
	)
	account := services.NewAccountService(
		db, log, clients.KV,
		reposet.User, reposet.Household, reposet.Member, reposet.Finance,
		auth, notifier, cfg.DeletionRequestTTL,
	)
	finance := services.NewFinanceService(
		db, log, clients.KV,
		reposet.Member, reposet.Finance,
	)

	return Services{
		Auth:       auth,
		Household:  household,
		Invitation: invitation,
		Account:    account,
		Finance:    finance,
		Notifier:   notifier,
	}
}
