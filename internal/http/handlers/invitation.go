package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/http/response"
	"github.com/3-da/sharedbudget-backend/internal/services"
)

type InvitationHandler struct {
	invitationService services.InvitationService
}

func NewInvitationHandler(invitationService services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

func (ih *InvitationHandler) Invite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	invitation, err := ih.invitationService.Invite(c.Request.Context(), userID, req.Email)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, invitation)
}

func (ih *InvitationHandler) Respond(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_invitation_id", err)
		return
	}
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ih.invitationService.Respond(c.Request.Context(), userID, invitationID, req.Accept); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ih *InvitationHandler) Cancel(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_invitation_id", err)
		return
	}
	if err := ih.invitationService.Cancel(c.Request.Context(), userID, invitationID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ih *InvitationHandler) ListPending(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	invitations, err := ih.invitationService.ListPending(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"invitations": invitations})
}
