package store

import (
	"context"
	"strings"

	"pharmacy-backoffice/internal/models"

	"gorm.io/gorm"
)

type SupplierStore struct {
	db *gorm.DB
}

// SupplierDraft is the add-supplier form.
type SupplierDraft struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (d SupplierDraft) Complete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Contact) != "" &&
		strings.TrimSpace(d.Email) != "" &&
		strings.TrimSpace(d.Phone) != ""
}

// List returns suppliers whose name, contact or id contains term.
func (s *SupplierStore) List(ctx context.Context, term string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return matchAny(suppliers, term, func(sup models.Supplier) []string {
		return []string{sup.Name, sup.Contact, sup.ID}
	}), nil
}

// Create adds an active supplier with no medicines supplied yet.
func (s *SupplierStore) Create(ctx context.Context, d SupplierDraft) (sup models.Supplier, ok bool, err error) {
	if !d.Complete() {
		return models.Supplier{}, false, nil
	}

	sup = models.Supplier{
		Name:    strings.TrimSpace(d.Name),
		Contact: strings.TrimSpace(d.Contact),
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Address: d.Address,
		Status:  models.StatusActive,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, seq, err := nextID(tx, models.CollectionSuppliers)
		if err != nil {
			return err
		}
		sup.ID, sup.Seq = id, seq
		return tx.Create(&sup).Error
	})
	if err != nil {
		return models.Supplier{}, false, err
	}
	return sup, true, nil
}

// ToggleStatus flips Active/Inactive in place and returns the result.
func (s *SupplierStore) ToggleStatus(ctx context.Context, id string) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sup, "id = ?", id).Error; err != nil {
			return err
		}
		sup.Status = sup.Status.Toggled()
		return tx.Model(&sup).Update("status", sup.Status).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &sup, nil
}

func (s *SupplierStore) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Supplier{}).
		Where("status = ?", models.StatusActive).
		Count(&n).Error
	return n, err
}
