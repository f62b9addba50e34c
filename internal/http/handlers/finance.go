package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/http/response"
	"github.com/3-da/sharedbudget-backend/internal/services"
)

type FinanceHandler struct {
	financeService services.FinanceService
}

func NewFinanceHandler(financeService services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (fh *FinanceHandler) AddExpense(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Title       string    `json:"title"`
		Category    string    `json:"category"`
		AmountCents int64     `json:"amount_cents"`
		SpentAt     time.Time `json:"spent_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	expense, err := fh.financeService.AddExpense(c.Request.Context(), userID, req.Title, req.Category, req.AmountCents, req.SpentAt)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, expense)
}

func (fh *FinanceHandler) ListExpenses(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	expenses, err := fh.financeService.ListExpenses(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"expenses": expenses})
}

func (fh *FinanceHandler) DeleteExpense(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_expense_id", err)
		return
	}
	if err := fh.financeService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (fh *FinanceHandler) AddSavingsGoal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		TargetCents int64  `json:"target_cents"`
		SavedCents  int64  `json:"saved_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	goal, err := fh.financeService.AddSavingsGoal(c.Request.Context(), userID, req.Name, req.TargetCents, req.SavedCents)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, goal)
}

func (fh *FinanceHandler) ListSavingsGoals(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	goals, err := fh.financeService.ListSavingsGoals(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"savings_goals": goals})
}

func (fh *FinanceHandler) DeleteSavingsGoal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_goal_id", err)
		return
	}
	if err := fh.financeService.DeleteSavingsGoal(c.Request.Context(), userID, goalID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (fh *FinanceHandler) AddSalaryRecord(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Month       string `json:"month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	record, err := fh.financeService.AddSalaryRecord(c.Request.Context(), userID, req.AmountCents, req.Month)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, record)
}

func (fh *FinanceHandler) ListSalaryRecords(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	records, err := fh.financeService.ListSalaryRecords(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"salary_records": records})
}

func (fh *FinanceHandler) DeleteSalaryRecord(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_record_id", err)
		return
	}
	if err := fh.financeService.DeleteSalaryRecord(c.Request.Context(), userID, recordID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (fh *FinanceHandler) Summary(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	summary, err := fh.financeService.Summary(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
