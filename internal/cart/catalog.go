package cart

import (
	"context"
	"errors"

	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

// Item is what the new-sale dialog offers.
type Item struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Catalog is where the cart looks up prices and available stock.
type Catalog interface {
	Items(ctx context.Context) ([]Item, error)
	Lookup(ctx context.Context, id string) (Item, bool, error)
}

// StaticCatalog is a fixed list of items, separate from the inventory.
type StaticCatalog []Item

// DefaultCatalog is the catalog of the sales screen.
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		{ID: "MED001", Name: "Paracetamol 500mg", Price: decimal.RequireFromString("2.50"), Stock: 150},
		{ID: "MED002", Name: "Amoxicillin 250mg", Price: decimal.RequireFromString("15.75"), Stock: 8},
		{ID: "MED003", Name: "Ibuprofen 400mg", Price: decimal.RequireFromString("3.25"), Stock: 75},
		{ID: "MED004", Name: "Aspirin 325mg", Price: decimal.RequireFromString("1.75"), Stock: 200},
		{ID: "MED005", Name: "Cough Syrup", Price: decimal.RequireFromString("8.50"), Stock: 45},
	}
}

func (c StaticCatalog) Items(context.Context) ([]Item, error) {
	return append([]Item{}, c...), nil
}

func (c StaticCatalog) Lookup(_ context.Context, id string) (Item, bool, error) {
	for _, it := range c {
		if it.ID == id {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}

// MedicineSource is the part of the medicine store a catalog needs.
type MedicineSource interface {
	List(ctx context.Context, f store.MedicineFilter) ([]models.Medicine, error)
	Get(ctx context.Context, id string) (*models.Medicine, error)
}

// InventoryCatalog reads prices and stock straight from the medicines
// collection. Selling still never changes stock.
type InventoryCatalog struct {
	Medicines MedicineSource
}

func (c InventoryCatalog) Items(ctx context.Context) ([]Item, error) {
	medicines, err := c.Medicines.List(ctx, store.MedicineFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(medicines))
	for _, m := range medicines {
		items = append(items, itemOf(m))
	}
	return items, nil
}

func (c InventoryCatalog) Lookup(ctx context.Context, id string) (Item, bool, error) {
	m, err := c.Medicines.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return itemOf(*m), true, nil
}

func itemOf(m models.Medicine) Item {
	return Item{ID: m.ID, Name: m.Name, Price: m.Price, Stock: m.Stock}
}
