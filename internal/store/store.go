package store

import (
	"errors"
	"strings"
	"time"

	"pharmacy-backoffice/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("resource not found")
)

// Stores bundles one repository per entity collection. The collections are
// independent: nothing checks that a sale line or an alert points at a
// medicine that exists.
type Stores struct {
	Medicines *MedicineStore
	Sales     *SaleStore
	Suppliers *SupplierStore
	Users     *UserStore
	Alerts    *AlertStore
}

// New wires every store to the same database handle.
func New(db *gorm.DB) *Stores {
	return NewWithClock(db, time.Now)
}

// NewWithClock is New with a fixed clock, for dates stamped on creation.
func NewWithClock(db *gorm.DB, now func() time.Time) *Stores {
	return &Stores{
		Medicines: &MedicineStore{db: db},
		Sales:     &SaleStore{db: db, now: now},
		Suppliers: &SupplierStore{db: db},
		Users:     &UserStore{db: db, now: now},
		Alerts:    &AlertStore{db: db},
	}
}

// nextID bumps the collection's sequence and returns the new id and number.
// Must run inside a transaction.
func nextID(tx *gorm.DB, collection string) (string, int, error) {
	res := tx.Model(&models.Sequence{}).
		Where("name = ?", collection).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", 0, res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&models.Sequence{Name: collection, Value: 1}).Error; err != nil {
			return "", 0, err
		}
		return models.FormatID(collection, 1), 1, nil
	}

	var seq models.Sequence
	if err := tx.First(&seq, "name = ?", collection).Error; err != nil {
		return "", 0, err
	}
	return models.FormatID(collection, seq.Value), seq.Value, nil
}

// matchAny keeps the rows where any of the fields contains term, ignoring
// case. Folding happens in Go because SQLite's LOWER only folds ASCII.
// An empty term matches everything.
func matchAny[T any](rows []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		for _, f := range fields(r) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
