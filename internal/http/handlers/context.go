package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/3-da/sharedbudget-backend/internal/requestdata"
)

// callerID pulls the authenticated user out of the request context. The
// auth middleware guarantees it is set on protected routes; a miss means
// the route was wired without RequireAuth.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
		})
		return uuid.Nil, false
	}
	return rd.UserID, true
}
