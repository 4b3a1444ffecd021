package store

import (
	"context"

	"pharmacy-backoffice/internal/models"

	"gorm.io/gorm"
)

type AlertStore struct {
	db *gorm.DB
}

// AlertBoard is the alerts screen: both sets plus the groupings derived
// from the active set.
type AlertBoard struct {
	Active         []models.LowStockAlert `json:"active"`
	Dismissed      []models.LowStockAlert `json:"dismissed"`
	Critical       []models.LowStockAlert `json:"critical"`
	HighPriority   []models.LowStockAlert `json:"high_priority"`
	MediumPriority []models.LowStockAlert `json:"medium_priority"`
}

func (s *AlertStore) List(ctx context.Context) ([]models.LowStockAlert, error) {
	var alerts []models.LowStockAlert
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Board splits the alerts into active and dismissed sets. Critical means out
// of stock; high priority excludes the critical ones.
func (s *AlertStore) Board(ctx context.Context) (*AlertBoard, error) {
	alerts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	board := &AlertBoard{
		Active:         []models.LowStockAlert{},
		Dismissed:      []models.LowStockAlert{},
		Critical:       []models.LowStockAlert{},
		HighPriority:   []models.LowStockAlert{},
		MediumPriority: []models.LowStockAlert{},
	}
	for _, a := range alerts {
		if a.Status == models.AlertDismissed {
			board.Dismissed = append(board.Dismissed, a)
			continue
		}
		board.Active = append(board.Active, a)
		if a.CurrentStock == 0 {
			board.Critical = append(board.Critical, a)
		}
		if a.Priority == models.PriorityHigh && a.CurrentStock > 0 {
			board.HighPriority = append(board.HighPriority, a)
		}
		if a.Priority == models.PriorityMedium {
			board.MediumPriority = append(board.MediumPriority, a)
		}
	}
	return board, nil
}

// Dismiss moves an alert to the dismissed set. Only the status changes.
func (s *AlertStore) Dismiss(ctx context.Context, id string) (*models.LowStockAlert, error) {
	return s.setStatus(ctx, id, models.AlertDismissed)
}

// Reactivate moves an alert back to the active set.
func (s *AlertStore) Reactivate(ctx context.Context, id string) (*models.LowStockAlert, error) {
	return s.setStatus(ctx, id, models.AlertActive)
}

func (s *AlertStore) setStatus(ctx context.Context, id string, status models.AlertStatus) (*models.LowStockAlert, error) {
	var a models.LowStockAlert
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return err
		}
		if a.Status == status {
			return nil
		}
		a.Status = status
		return tx.Model(&a).Update("status", status).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *AlertStore) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.LowStockAlert{}).
		Where("status = ?", models.AlertActive).
		Count(&n).Error
	return n, err
}
