package handlers

import (
	"log"
	"net/http"

	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// expiringSoonDays is the window for the expiring-soon flag.
const expiringSoonDays = 30

// MedicineView is a medicine with its derived fields.
type MedicineView struct {
	models.Medicine
	Status       models.StockStatus `json:"status"`
	Expired      bool               `json:"expired"`
	ExpiringSoon bool               `json:"expiring_soon"`
}

func (h *Handler) medicineView(m models.Medicine) MedicineView {
	now := h.now()
	return MedicineView{
		Medicine:     m,
		Status:       m.Status(),
		Expired:      m.Expired(now),
		ExpiringSoon: !m.Expired(now) && m.ExpiresWithin(now, expiringSoonDays),
	}
}

// --- GET: /api/medicines?q=&category= ---
func (h *Handler) ListMedicines(c *gin.Context) {
	var filter store.MedicineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter"})
		return
	}

	medicines, err := h.Stores.Medicines.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("list medicines: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch medicines"})
		return
	}

	views := make([]MedicineView, 0, len(medicines))
	for _, m := range medicines {
		views = append(views, h.medicineView(m))
	}
	c.JSON(http.StatusOK, views)
}

// --- GET: /api/medicines/categories ---
func (h *Handler) MedicineCategories(c *gin.Context) {
	c.JSON(http.StatusOK, store.Categories)
}

// --- POST: /api/medicines ---
// An incomplete form creates nothing and says nothing about why.
func (h *Handler) AddMedicine(c *gin.Context) {
	var draft store.MedicineDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}

	m, ok, err := h.Stores.Medicines.Create(c.Request.Context(), draft)
	if err != nil {
		log.Printf("create medicine: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medicine"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"created": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true, "medicine": h.medicineView(m)})
}

// --- DELETE: /api/medicines/:id ---
// The inventory screen offers delete but it never removes anything.
func (h *Handler) DeleteMedicine(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"deleted": false})
}
