package handlers

import (
	"log"
	"net/http"

	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/suppliers?q= ---
func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.Stores.Suppliers.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("list suppliers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// --- POST: /api/suppliers ---
func (h *Handler) AddSupplier(c *gin.Context) {
	var draft store.SupplierDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}

	sup, ok, err := h.Stores.Suppliers.Create(c.Request.Context(), draft)
	if err != nil {
		log.Printf("create supplier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true, "supplier": sup})
}

// --- POST: /api/suppliers/:id/toggle ---
func (h *Handler) ToggleSupplier(c *gin.Context) {
	sup, err := h.Stores.Suppliers.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "supplier")
		return
	}
	c.JSON(http.StatusOK, sup)
}

// --- DELETE: /api/suppliers/:id ---
// Offered on the suppliers screen, removes nothing.
func (h *Handler) DeleteSupplier(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"deleted": false})
}
