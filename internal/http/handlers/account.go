package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/http/response"
	"github.com/3-da/sharedbudget-backend/internal/services"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (ah *AccountHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := ah.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AccountHandler) RequestDeletion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		TargetMemberID uuid.UUID `json:"target_member_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	requestID, err := ah.accountService.RequestDeletion(c.Request.Context(), userID, req.TargetMemberID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"request_id": requestID})
}

func (ah *AccountHandler) ListPendingDeletionRequests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requests, err := ah.accountService.ListPendingDeletionRequests(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"requests": requests})
}

func (ah *AccountHandler) RespondToDeletionRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		RequestID string `json:"request_id"`
		Accept    bool   `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.RequestID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_request_id", nil)
		return
	}
	message, err := ah.accountService.RespondToDeletionRequest(c.Request.Context(), userID, req.RequestID, req.Accept)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": message})
}

func (ah *AccountHandler) CancelDeletionRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := ah.accountService.CancelDeletionRequest(c.Request.Context(), userID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
