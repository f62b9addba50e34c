package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/http/response"
	"github.com/3-da/sharedbudget-backend/internal/services"
)

type HouseholdHandler struct {
	householdService services.HouseholdService
}

func NewHouseholdHandler(householdService services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService}
}

func (hh *HouseholdHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Name       string `json:"name"`
		MaxMembers int    `json:"max_members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	household, err := hh.householdService.Create(c.Request.Context(), userID, req.Name, req.MaxMembers)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, household)
}

func (hh *HouseholdHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	household, err := hh.householdService.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, household)
}

func (hh *HouseholdHandler) Join(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	household, err := hh.householdService.JoinByCode(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, household)
}

func (hh *HouseholdHandler) RegenerateInviteCode(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	code, err := hh.householdService.RegenerateInviteCode(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"invite_code": code})
}

func (hh *HouseholdHandler) Leave(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := hh.householdService.Leave(c.Request.Context(), userID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (hh *HouseholdHandler) RemoveMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	if err := hh.householdService.RemoveMember(c.Request.Context(), userID, memberID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (hh *HouseholdHandler) TransferOwnership(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := hh.householdService.TransferOwnership(c.Request.Context(), userID, req.UserID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
