package handlers

import (
	"net/http"

	"pharmacy-backoffice/internal/dashboard"
	"pharmacy-backoffice/internal/middleware"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/dashboard ---
func (h *Handler) Overview(c *gin.Context) {
	session := middleware.CurrentSession(c)

	overview, err := dashboard.For(session.Role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
		return
	}
	c.JSON(http.StatusOK, overview)
}
