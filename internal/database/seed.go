package database

import (
	"pharmacy-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id, name, p string, qty, stock int) models.SaleLine {
	return models.SaleLine{CartLine: models.CartLine{
		MedicineID:    id,
		Name:          name,
		Price:         price(p),
		Quantity:      qty,
		StockSnapshot: stock,
	}}
}

// SeedMedicines is the inventory every process starts with.
func SeedMedicines() []models.Medicine {
	return []models.Medicine{
		{ID: "MED001", Seq: 1, Name: "Paracetamol 500mg", Category: "Pain Relief", Stock: 150, Price: price("2.50"), ExpiryDate: "2025-12-31", Supplier: "PharmaCorp", Threshold: 20},
		{ID: "MED002", Seq: 2, Name: "Amoxicillin 250mg", Category: "Antibiotics", Stock: 8, Price: price("15.75"), ExpiryDate: "2025-06-15", Supplier: "MediSupply", Threshold: 25},
		{ID: "MED003", Seq: 3, Name: "Ibuprofen 400mg", Category: "Pain Relief", Stock: 75, Price: price("3.25"), ExpiryDate: "2026-03-20", Supplier: "PharmaCorp", Threshold: 30},
	}
}

// SeedSales is the sales history every process starts with.
func SeedSales() []models.Sale {
	return []models.Sale{
		{
			ID: "INV-001", Seq: 1, Date: "2024-01-15", Customer: "John Doe",
			Items:  []models.SaleLine{line("MED001", "Paracetamol 500mg", "2.50", 2, 150)},
			Total:  price("5.00"),
			Status: models.SaleCompleted,
		},
		{
			ID: "INV-002", Seq: 2, Date: "2024-01-15", Customer: "Jane Smith",
			Items: []models.SaleLine{
				line("MED002", "Amoxicillin 250mg", "15.75", 1, 8),
				line("MED003", "Ibuprofen 400mg", "3.25", 2, 75),
			},
			Total:  price("22.25"),
			Status: models.SaleCompleted,
		},
	}
}

func SeedSuppliers() []models.Supplier {
	return []models.Supplier{
		{ID: "SUP001", Seq: 1, Name: "PharmaCorp Ltd", Contact: "John Smith", Email: "john@pharmacorp.com", Phone: "+1-555-0123", Address: "123 Medical St, Health City", Status: models.StatusActive, MedicinesSupplied: 45},
		{ID: "SUP002", Seq: 2, Name: "MediSupply Inc", Contact: "Sarah Johnson", Email: "sarah@medisupply.com", Phone: "+1-555-0456", Address: "456 Pharma Ave, Medicine Town", Status: models.StatusActive, MedicinesSupplied: 32},
		{ID: "SUP003", Seq: 3, Name: "HealthCare Distributors", Contact: "Mike Wilson", Email: "mike@healthcare-dist.com", Phone: "+1-555-0789", Address: "789 Supply Blvd, Drug District", Status: models.StatusInactive, MedicinesSupplied: 18},
	}
}

func SeedUsers() []models.SystemUser {
	return []models.SystemUser{
		{ID: "USR001", Seq: 1, Username: "admin", Email: "admin@pharmacy.com", Role: models.RoleAdmin, Status: models.StatusActive, LastLogin: "2024-01-15 10:30", CreatedDate: "2024-01-01"},
		{ID: "USR002", Seq: 2, Username: "pharmacist", Email: "pharmacist@pharmacy.com", Role: models.RolePharmacist, Status: models.StatusActive, LastLogin: "2024-01-15 09:15", CreatedDate: "2024-01-02"},
		{ID: "USR003", Seq: 3, Username: "cashier1", Email: "cashier1@pharmacy.com", Role: models.RoleCashier, Status: models.StatusActive, LastLogin: "2024-01-14 16:45", CreatedDate: "2024-01-05"},
		{ID: "USR004", Seq: 4, Username: "temp_user", Email: "temp@pharmacy.com", Role: models.RoleCashier, Status: models.StatusInactive, LastLogin: "2024-01-10 14:20", CreatedDate: "2024-01-08"},
	}
}

func SeedAlerts() []models.LowStockAlert {
	return []models.LowStockAlert{
		{ID: "ALT001", Seq: 1, MedicineID: "MED002", MedicineName: "Amoxicillin 250mg", CurrentStock: 8, Threshold: 25, Category: "Antibiotics", Supplier: "MediSupply", LastRestocked: "2024-01-10", Priority: models.PriorityHigh, Status: models.AlertActive},
		{ID: "ALT002", Seq: 2, MedicineID: "MED005", MedicineName: "Paracetamol 500mg", CurrentStock: 5, Threshold: 20, Category: "Pain Relief", Supplier: "PharmaCorp", LastRestocked: "2024-01-12", Priority: models.PriorityHigh, Status: models.AlertActive},
		{ID: "ALT003", Seq: 3, MedicineID: "MED007", MedicineName: "Ibuprofen 400mg", CurrentStock: 12, Threshold: 30, Category: "Pain Relief", Supplier: "PharmaCorp", LastRestocked: "2024-01-08", Priority: models.PriorityMedium, Status: models.AlertActive},
		{ID: "ALT004", Seq: 4, MedicineID: "MED010", MedicineName: "Cough Syrup", CurrentStock: 15, Threshold: 25, Category: "Respiratory", Supplier: "HealthCare Distributors", LastRestocked: "2024-01-05", Priority: models.PriorityMedium, Status: models.AlertActive},
		{ID: "ALT005", Seq: 5, MedicineID: "MED003", MedicineName: "Aspirin 325mg", CurrentStock: 0, Threshold: 50, Category: "Pain Relief", Supplier: "PharmaCorp", LastRestocked: "2024-01-01", Priority: models.PriorityHigh, Status: models.AlertActive},
	}
}

// Seed loads the sample rows and advances each sequence past them.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		medicines := SeedMedicines()
		sales := SeedSales()
		suppliers := SeedSuppliers()
		users := SeedUsers()
		alerts := SeedAlerts()

		for _, rows := range []interface{}{&medicines, &sales, &suppliers, &users, &alerts} {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}

		sequences := []models.Sequence{
			{Name: models.CollectionMedicines, Value: len(medicines)},
			{Name: models.CollectionSales, Value: len(sales)},
			{Name: models.CollectionSuppliers, Value: len(suppliers)},
			{Name: models.CollectionUsers, Value: len(users)},
			{Name: models.CollectionAlerts, Value: len(alerts)},
		}
		return tx.Create(&sequences).Error
	})
}
