package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pharmacy-backoffice/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NeverLoggedIn is the last-login value of a fresh account.
const NeverLoggedIn = "Never"

type UserStore struct {
	db  *gorm.DB
	now func() time.Time
}

// UserFilter narrows a user listing. Empty fields match all.
type UserFilter struct {
	Term string `form:"q"`
	Role string `form:"role"`
}

// UserDraft is the add-user form. Password is optional.
type UserDraft struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Password string      `json:"password"`
}

func (d UserDraft) Complete() bool {
	return strings.TrimSpace(d.Username) != "" &&
		strings.TrimSpace(d.Email) != "" &&
		d.Role.Valid()
}

// List returns users whose username, email or id contains term, limited to
// one role when given.
func (s *UserStore) List(ctx context.Context, f UserFilter) ([]models.SystemUser, error) {
	q := s.db.WithContext(ctx)
	if f.Role != "" && f.Role != "all" {
		q = q.Where("role = ?", f.Role)
	}

	var users []models.SystemUser
	if err := q.Order("seq asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return matchAny(users, f.Term, func(u models.SystemUser) []string {
		return []string{u.Username, u.Email, u.ID}
	}), nil
}

// Create adds an active account that has never logged in.
func (s *UserStore) Create(ctx context.Context, d UserDraft) (u models.SystemUser, ok bool, err error) {
	if !d.Complete() {
		return models.SystemUser{}, false, nil
	}

	u = models.SystemUser{
		Username:    strings.TrimSpace(d.Username),
		Email:       strings.TrimSpace(d.Email),
		Role:        d.Role,
		Status:      models.StatusActive,
		LastLogin:   NeverLoggedIn,
		CreatedDate: s.now().Format(models.DateLayout),
	}
	if d.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.SystemUser{}, false, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, seq, err := nextID(tx, models.CollectionUsers)
		if err != nil {
			return err
		}
		u.ID, u.Seq = id, seq
		return tx.Create(&u).Error
	})
	if err != nil {
		return models.SystemUser{}, false, err
	}
	return u, true, nil
}

// ToggleStatus flips Active/Inactive in place and returns the result.
func (s *UserStore) ToggleStatus(ctx context.Context, id string) (*models.SystemUser, error) {
	var u models.SystemUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		u.Status = u.Status.Toggled()
		return tx.Model(&u).Update("status", u.Status).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
