package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- POST: /api/ask ---
func (h *Handler) AskAssistant(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if h.Assistant == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing Gemini API Key"})
		return
	}

	reply, err := h.Assistant.Ask(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("assistant: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant failed to answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
