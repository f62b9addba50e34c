package app

import (
	"gorm.io/gorm"

	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Household  repos.HouseholdRepo
	Member     repos.MemberRepo
	Invitation repos.InvitationRepo
	Finance    repos.FinanceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Household:  repos.NewHouseholdRepo(db, log),
		Member:     repos.NewMemberRepo(db, log),
		Invitation: repos.NewInvitationRepo(db, log),
		Finance:    repos.NewFinanceRepo(db, log),
	}
}
