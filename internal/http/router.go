package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/3-da/sharedbudget-backend/internal/http/handlers"
	httpMW "github.com/3-da/sharedbudget-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	HouseholdHandler  *httpH.HouseholdHandler
	InvitationHandler *httpH.InvitationHandler
	AccountHandler    *httpH.AccountHandler
	FinanceHandler    *httpH.FinanceHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Household
		if cfg.HouseholdHandler != nil {
			protected.POST("/household", cfg.HouseholdHandler.Create)
			protected.GET("/household", cfg.HouseholdHandler.Get)
			protected.POST("/household/join", cfg.HouseholdHandler.Join)
			protected.POST("/household/leave", cfg.HouseholdHandler.Leave)
			protected.POST("/household/invite-code", cfg.HouseholdHandler.RegenerateInviteCode)
			protected.POST("/household/transfer-ownership", cfg.HouseholdHandler.TransferOwnership)
			protected.DELETE("/household/members/:userId", cfg.HouseholdHandler.RemoveMember)
		}

		// Invitations
		if cfg.InvitationHandler != nil {
			protected.POST("/invitations", cfg.InvitationHandler.Invite)
			protected.GET("/invitations/pending", cfg.InvitationHandler.ListPending)
			protected.POST("/invitations/:invitationId/respond", cfg.InvitationHandler.Respond)
			protected.POST("/invitations/:invitationId/cancel", cfg.InvitationHandler.Cancel)
		}

		// Account lifecycle
		if cfg.AccountHandler != nil {
			protected.DELETE("/account", cfg.AccountHandler.Delete)
			protected.POST("/account/deletion-requests", cfg.AccountHandler.RequestDeletion)
			protected.GET("/account/deletion-requests/pending", cfg.AccountHandler.ListPendingDeletionRequests)
			protected.POST("/account/deletion-requests/respond", cfg.AccountHandler.RespondToDeletionRequest)
			protected.POST("/account/deletion-requests/cancel", cfg.AccountHandler.CancelDeletionRequest)
		}

		// Finance
		if cfg.FinanceHandler != nil {
			protected.POST("/expenses", cfg.FinanceHandler.AddExpense)
			protected.GET("/expenses", cfg.FinanceHandler.ListExpenses)
			protected.DELETE("/expenses/:expenseId", cfg.FinanceHandler.DeleteExpense)

			protected.POST("/savings-goals", cfg.FinanceHandler.AddSavingsGoal)
			protected.GET("/savings-goals", cfg.FinanceHandler.ListSavingsGoals)
			protected.DELETE("/savings-goals/:goalId", cfg.FinanceHandler.DeleteSavingsGoal)

			protected.POST("/salary-records", cfg.FinanceHandler.AddSalaryRecord)
			protected.GET("/salary-records", cfg.FinanceHandler.ListSalaryRecords)
			protected.DELETE("/salary-records/:recordId", cfg.FinanceHandler.DeleteSalaryRecord)

			protected.GET("/summary", cfg.FinanceHandler.Summary)
		}
	}

	return r
}
