package handlers

import (
	"log"
	"net/http"

	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/users?q=&role= ---
func (h *Handler) ListUsers(c *gin.Context) {
	var filter store.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter"})
		return
	}

	users, err := h.Stores.Users.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// --- POST: /api/users ---
func (h *Handler) AddUser(c *gin.Context) {
	var draft store.UserDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}

	u, ok, err := h.Stores.Users.Create(c.Request.Context(), draft)
	if err != nil {
		log.Printf("create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true, "user": u})
}

// --- POST: /api/users/:id/toggle ---
func (h *Handler) ToggleUser(c *gin.Context) {
	u, err := h.Stores.Users.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, u)
}
