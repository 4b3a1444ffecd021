package handlers

import (
	"log"
	"net/http"

	"pharmacy-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

// AlertView is an alert with its display stock level next to the stored
// priority.
type AlertView struct {
	models.LowStockAlert
	StockLevel models.StockLevel `json:"stock_level"`
}

func alertViews(alerts []models.LowStockAlert) []AlertView {
	out := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertView{LowStockAlert: a, StockLevel: a.Level()})
	}
	return out
}

// --- GET: /api/alerts ---
func (h *Handler) ListAlerts(c *gin.Context) {
	board, err := h.Stores.Alerts.Board(c.Request.Context())
	if err != nil {
		log.Printf("load alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active":          alertViews(board.Active),
		"dismissed":       alertViews(board.Dismissed),
		"critical":        alertViews(board.Critical),
		"high_priority":   alertViews(board.HighPriority),
		"medium_priority": alertViews(board.MediumPriority),
	})
}

// --- POST: /api/alerts/:id/dismiss ---
func (h *Handler) DismissAlert(c *gin.Context) {
	a, err := h.Stores.Alerts.Dismiss(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "alert")
		return
	}
	c.JSON(http.StatusOK, AlertView{LowStockAlert: *a, StockLevel: a.Level()})
}

// --- POST: /api/alerts/:id/reactivate ---
func (h *Handler) ReactivateAlert(c *gin.Context) {
	a, err := h.Stores.Alerts.Reactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "alert")
		return
	}
	c.JSON(http.StatusOK, AlertView{LowStockAlert: *a, StockLevel: a.Level()})
}
