package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Role - who is sitting at the dashboard
type Role string

const (
	RoleAdmin      Role = "Admin"
	RolePharmacist Role = "Pharmacist"
	RoleCashier    Role = "Cashier"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RolePharmacist, RoleCashier}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePharmacist, RoleCashier:
		return true
	}
	return false
}

// Status is the binary Active/Inactive flag on suppliers and users.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// DateLayout is the day format used by every date field.
const DateLayout = "2006-01-02"

// Medicine - one row of the inventory
type Medicine struct {
	ID         string          `gorm:"primaryKey;size:20" json:"id"`
	Seq        int             `gorm:"index" json:"-"`
	Name       string          `gorm:"size:120" json:"name"`
	Category   string          `gorm:"size:60;index" json:"category"`
	Stock      int             `json:"stock"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	ExpiryDate string          `gorm:"size:10" json:"expiry_date"`
	Supplier   string          `gorm:"size:120" json:"supplier"`
	Threshold  int             `json:"threshold"`
}

// StockStatus is derived from stock and threshold, never stored.
type StockStatus string

const (
	InStock    StockStatus = "In Stock"
	LowStock   StockStatus = "Low Stock"
	OutOfStock StockStatus = "Out of Stock"
)

// StatusFor derives the stock status of a medicine.
func StatusFor(stock, threshold int) StockStatus {
	if stock == 0 {
		return OutOfStock
	}
	if stock <= threshold {
		return LowStock
	}
	return InStock
}

// Status of this medicine right now.
func (m Medicine) Status() StockStatus {
	return StatusFor(m.Stock, m.Threshold)
}

// Expired reports whether the expiry date is before the given day.
// An unparsable expiry date never counts as expired.
func (m Medicine) Expired(now time.Time) bool {
	exp, err := time.Parse(DateLayout, m.ExpiryDate)
	if err != nil {
		return false
	}
	return exp.Before(truncateDay(now))
}

// ExpiresWithin reports whether the medicine expires within the next n days.
func (m Medicine) ExpiresWithin(now time.Time, days int) bool {
	exp, err := time.Parse(DateLayout, m.ExpiryDate)
	if err != nil {
		return false
	}
	return exp.Before(truncateDay(now).AddDate(0, 0, days))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Sale - a completed checkout
type Sale struct {
	ID       string          `gorm:"primaryKey;size:20" json:"id"`
	Seq      int             `gorm:"index" json:"-"`
	Date     string          `gorm:"size:10;index" json:"date"`
	Customer string          `gorm:"size:120" json:"customer"`
	Items    []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"` // frozen at completion
	Status   string          `gorm:"size:20" json:"status"`
}

// SaleCompleted is the only status a sale is ever created with.
const SaleCompleted = "Completed"

// SaleLine - a cart line copied into a sale
type SaleLine struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	SaleID string `gorm:"size:20;index" json:"-"`
	CartLine
}

// CartLine is a denormalized copy of a catalog item at the moment it was added.
type CartLine struct {
	MedicineID    string          `gorm:"size:20" json:"medicine_id"`
	Name          string          `gorm:"size:120" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Quantity      int             `json:"quantity"`
	StockSnapshot int             `json:"stock"`
}

// Subtotal is price * quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Supplier - a company we buy from
type Supplier struct {
	ID                string `gorm:"primaryKey;size:20" json:"id"`
	Seq               int    `gorm:"index" json:"-"`
	Name              string `gorm:"size:120" json:"name"`
	Contact           string `gorm:"size:120" json:"contact"`
	Email             string `gorm:"size:120" json:"email"`
	Phone             string `gorm:"size:40" json:"phone"`
	Address           string `gorm:"size:255" json:"address"`
	Status            Status `gorm:"size:10" json:"status"`
	MedicinesSupplied int    `json:"medicines_supplied"`
}

// SystemUser - an account shown in user management
type SystemUser struct {
	ID           string `gorm:"primaryKey;size:20" json:"id"`
	Seq          int    `gorm:"index" json:"-"`
	Username     string `gorm:"size:50" json:"username"`
	Email        string `gorm:"size:120" json:"email"`
	PasswordHash string `json:"-"` // never return this in JSON
	Role         Role   `gorm:"size:20;index" json:"role"`
	Status       Status `gorm:"size:10" json:"status"`
	LastLogin    string `gorm:"size:20" json:"last_login"`
	CreatedDate  string `gorm:"size:10" json:"created_date"`
}

// Priority of a low-stock alert. Stored, not derived.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// AlertStatus moves between Active and Dismissed.
type AlertStatus string

const (
	AlertActive    AlertStatus = "Active"
	AlertDismissed AlertStatus = "Dismissed"
)

// LowStockAlert - a medicine that needs restocking
type LowStockAlert struct {
	ID            string      `gorm:"primaryKey;size:20" json:"id"`
	Seq           int         `gorm:"index" json:"-"`
	MedicineID    string      `gorm:"size:20" json:"medicine_id"`
	MedicineName  string      `gorm:"size:120" json:"medicine_name"`
	CurrentStock  int         `json:"current_stock"`
	Threshold     int         `json:"threshold"`
	Category      string      `gorm:"size:60" json:"category"`
	Supplier      string      `gorm:"size:120" json:"supplier"`
	LastRestocked string      `gorm:"size:10" json:"last_restocked"`
	Priority      Priority    `gorm:"size:10" json:"priority"`
	Status        AlertStatus `gorm:"size:10;index" json:"status"`
}

// StockLevel is the display severity of an alert, computed from the
// stock/threshold ratio. It is independent of the stored Priority.
type StockLevel string

const (
	LevelCritical StockLevel = "critical"
	LevelSevere   StockLevel = "severe"
	LevelWarning  StockLevel = "warning"
	LevelNotice   StockLevel = "notice"
)

// Level derives the stock level of the alert.
func (a LowStockAlert) Level() StockLevel {
	switch {
	case a.CurrentStock == 0:
		return LevelCritical
	case a.CurrentStock*10 <= a.Threshold*3:
		return LevelSevere
	case a.CurrentStock*10 <= a.Threshold*6:
		return LevelWarning
	}
	return LevelNotice
}

// Sequence backs monotonic id generation for one collection.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:20"`
	Value int
}

// Collection names key the sequences table. Each has a fixed id prefix.
const (
	CollectionMedicines = "medicines"
	CollectionSales     = "sales"
	CollectionSuppliers = "suppliers"
	CollectionUsers     = "users"
	CollectionAlerts    = "alerts"
)

var idPrefixes = map[string]string{
	CollectionMedicines: "MED",
	CollectionSales:     "INV-",
	CollectionSuppliers: "SUP",
	CollectionUsers:     "USR",
	CollectionAlerts:    "ALT",
}

// FormatID renders the n-th id of a collection, e.g. MED004 or INV-012.
func FormatID(collection string, n int) string {
	return fmt.Sprintf("%s%03d", idPrefixes[collection], n)
}
