package store

import (
	"context"
	"strings"

	"pharmacy-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Categories offered by the add-medicine form.
var Categories = []string{"Pain Relief", "Antibiotics", "Vitamins", "Cardiovascular", "Respiratory"}

// Defaults applied to optional medicine fields.
const (
	DefaultExpiryDate = "2025-12-31"
	DefaultSupplier   = "Unknown"
	DefaultThreshold  = 20
)

type MedicineStore struct {
	db *gorm.DB
}

// MedicineFilter narrows a medicine listing. Empty fields match all.
type MedicineFilter struct {
	Term     string `form:"q"`
	Category string `form:"category"`
}

// MedicineDraft is the add-medicine form.
type MedicineDraft struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Stock      int             `json:"stock"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate string          `json:"expiry_date"`
	Supplier   string          `json:"supplier"`
	Threshold  int             `json:"threshold"`
}

// Complete reports whether every required field is filled in. Zero stock or
// zero price count as missing.
func (d MedicineDraft) Complete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		d.Category != "" &&
		d.Stock > 0 &&
		d.Price.IsPositive()
}

// List returns medicines matching name or id, and category when given,
// in insertion order.
func (s *MedicineStore) List(ctx context.Context, f MedicineFilter) ([]models.Medicine, error) {
	q := s.db.WithContext(ctx)
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}

	var medicines []models.Medicine
	if err := q.Order("seq asc").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return matchAny(medicines, f.Term, func(m models.Medicine) []string {
		return []string{m.Name, m.ID}
	}), nil
}

func (s *MedicineStore) Get(ctx context.Context, id string) (*models.Medicine, error) {
	var m models.Medicine
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// Create appends a medicine built from the draft. An incomplete draft
// creates nothing and reports ok=false.
func (s *MedicineStore) Create(ctx context.Context, d MedicineDraft) (m models.Medicine, ok bool, err error) {
	if !d.Complete() {
		return models.Medicine{}, false, nil
	}

	m = models.Medicine{
		Name:       strings.TrimSpace(d.Name),
		Category:   d.Category,
		Stock:      d.Stock,
		Price:      d.Price,
		ExpiryDate: d.ExpiryDate,
		Supplier:   d.Supplier,
		Threshold:  d.Threshold,
	}
	if m.ExpiryDate == "" {
		m.ExpiryDate = DefaultExpiryDate
	}
	if m.Supplier == "" {
		m.Supplier = DefaultSupplier
	}
	if m.Threshold <= 0 {
		m.Threshold = DefaultThreshold
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, seq, err := nextID(tx, models.CollectionMedicines)
		if err != nil {
			return err
		}
		m.ID, m.Seq = id, seq
		return tx.Create(&m).Error
	})
	if err != nil {
		return models.Medicine{}, false, err
	}
	return m, true, nil
}

func (s *MedicineStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Medicine{}).Count(&n).Error
	return n, err
}
