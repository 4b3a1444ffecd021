package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"pharmacy-backoffice/internal/auth"
	"pharmacy-backoffice/internal/cart"
	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// Asker answers a free-text question.
type Asker interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Handler serves the back-office API.
type Handler struct {
	Stores    *store.Stores
	Tokens    *auth.Tokens
	Sessions  auth.SessionStore
	Carts     *cart.Registry
	Assistant Asker // nil when no API key is configured

	now func() time.Time
}

func New(stores *store.Stores, tokens *auth.Tokens, sessions auth.SessionStore, carts *cart.Registry, assistant Asker) *Handler {
	return &Handler{
		Stores:    stores,
		Tokens:    tokens,
		Sessions:  sessions,
		Carts:     carts,
		Assistant: assistant,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for derived dates.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// storeError maps a store error to a response.
func storeError(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	log.Printf("%s: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + what})
}

func isDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
