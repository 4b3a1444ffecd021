package handlers

import (
	"log"
	"net/http"

	"pharmacy-backoffice/internal/middleware"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/sales ---
func (h *Handler) ListSales(c *gin.Context) {
	sales, err := h.Stores.Sales.List(c.Request.Context())
	if err != nil {
		log.Printf("list sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: /api/sales/:id ---
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.Stores.Sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// --- GET: /api/sales/catalog ---
// What the new-sale dialog can sell.
func (h *Handler) SaleCatalog(c *gin.Context) {
	items, err := h.Carts.Catalog().Items(c.Request.Context())
	if err != nil {
		log.Printf("load catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch catalog"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- GET: /api/cart ---
// Opens the session's cart if it has none.
func (h *Handler) GetCart(c *gin.Context) {
	session := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, h.Carts.Open(session.ID, session.ExpiresAt).View())
}

type AddLineRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// --- POST: /api/cart/lines ---
// A quantity out of range or an unknown item leaves the cart as it was.
func (h *Handler) AddCartLine(c *gin.Context) {
	session := middleware.CurrentSession(c)
	cart := h.Carts.Open(session.ID, session.ExpiresAt)

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"added": false, "cart": cart.View()})
		return
	}

	added, err := cart.AddLine(c.Request.Context(), req.MedicineID, req.Quantity)
	if err != nil {
		log.Printf("add cart line: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "cart": cart.View()})
}

// --- DELETE: /api/cart/lines/:id ---
func (h *Handler) RemoveCartLine(c *gin.Context) {
	session := middleware.CurrentSession(c)
	cart := h.Carts.Open(session.ID, session.ExpiresAt)

	removed := cart.RemoveLine(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": removed, "cart": cart.View()})
}

type CompleteSaleRequest struct {
	Customer string `json:"customer"`
}

// --- POST: /api/cart/complete ---
// Records the sale and closes the cart. Stock is not touched.
func (h *Handler) CompleteSale(c *gin.Context) {
	session := middleware.CurrentSession(c)
	cart, ok := h.Carts.Get(session.ID)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"completed": false})
		return
	}

	var req CompleteSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"completed": false})
		return
	}

	sale, done, err := cart.Complete(c.Request.Context(), req.Customer, h.Stores.Sales)
	if err != nil {
		log.Printf("record sale: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale record"})
		return
	}
	if !done {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"completed": false})
		return
	}
	h.Carts.Close(session.ID)

	c.JSON(http.StatusCreated, gin.H{"completed": true, "sale": sale})
}

// --- DELETE: /api/cart ---
func (h *Handler) DiscardCart(c *gin.Context) {
	session := middleware.CurrentSession(c)
	h.Carts.Close(session.ID)
	c.Status(http.StatusNoContent)
}
