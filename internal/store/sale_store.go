package store

import (
	"context"
	"time"

	"pharmacy-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleStore struct {
	db  *gorm.DB
	now func() time.Time
}

// List returns the sales history, newest first.
func (s *SaleStore) List(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("seq desc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *SaleStore) Get(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// Record stores a completed sale with a fresh invoice id and today's date.
// The total is frozen as given.
func (s *SaleStore) Record(ctx context.Context, customer string, lines []models.CartLine, total decimal.Decimal) (models.Sale, error) {
	sale := models.Sale{
		Date:     s.now().Format(models.DateLayout),
		Customer: customer,
		Total:    total,
		Status:   models.SaleCompleted,
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, models.SaleLine{CartLine: l})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, seq, err := nextID(tx, models.CollectionSales)
		if err != nil {
			return err
		}
		sale.ID, sale.Seq = id, seq
		return tx.Create(&sale).Error
	})
	if err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// SalesSummary holds revenue and order count over a date range.
type SalesSummary struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCount   int64           `json:"total_count"`
}

// Summary totals sales dated within [from, to], both YYYY-MM-DD inclusive.
// Empty bounds are open.
func (s *SaleStore) Summary(ctx context.Context, from, to string) (*SalesSummary, error) {
	q := s.db.WithContext(ctx).Model(&models.Sale{})
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var row struct {
		Revenue decimal.Decimal
		Count   int64
	}
	// COALESCE gives 0 instead of NULL when no sale matches
	if err := q.Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").Scan(&row).Error; err != nil {
		return nil, err
	}

	return &SalesSummary{
		From:         from,
		To:           to,
		TotalRevenue: row.Revenue,
		TotalCount:   row.Count,
	}, nil
}

// TopSeller is one row of the best-sellers table.
type TopSeller struct {
	Name    string          `json:"name"`
	Sold    int             `json:"sold"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopSelling ranks sold items by units across every sale line.
func (s *SaleStore) TopSelling(ctx context.Context, limit int) ([]TopSeller, error) {
	var rows []TopSeller
	err := s.db.WithContext(ctx).Model(&models.SaleLine{}).
		Select("name, SUM(quantity) AS sold, SUM(quantity * price) AS revenue").
		Group("name").
		Order("sold desc, name asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
