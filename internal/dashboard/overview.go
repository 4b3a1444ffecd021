package dashboard

import (
	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/policy"
)

// Stat is one summary card. Values are fixed display strings.
type Stat struct {
	ID    policy.StatID `json:"id"`
	Title string        `json:"title"`
	Value string        `json:"value"`
}

var stats = map[policy.StatID]Stat{
	policy.StatTotalMedicines:  {policy.StatTotalMedicines, "Total Medicines", "1,234"},
	policy.StatLowStockItems:   {policy.StatLowStockItems, "Low Stock Items", "23"},
	policy.StatTodaySales:      {policy.StatTodaySales, "Today's Sales", "$2,456"},
	policy.StatActiveSuppliers: {policy.StatActiveSuppliers, "Active Suppliers", "45"},
}

type RecentSale struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Time     string `json:"time"`
}

type LowStockItem struct {
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type QuickItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock string `json:"stock"`
}

var recentSales = []RecentSale{
	{"INV-001", "John Doe", "$45.50", "2 hours ago"},
	{"INV-002", "Jane Smith", "$23.75", "4 hours ago"},
	{"INV-003", "Bob Johnson", "$67.25", "6 hours ago"},
}

var lowStock = []LowStockItem{
	{"Paracetamol 500mg", 5, 20},
	{"Amoxicillin 250mg", 8, 25},
	{"Ibuprofen 400mg", 12, 30},
}

var quickSearch = []QuickItem{
	{"Paracetamol 500mg", "$2.50", "150 units"},
	{"Ibuprofen 400mg", "$3.25", "75 units"},
	{"Aspirin 325mg", "$1.75", "200 units"},
}

// Overview is the content of the overview tab for one role. Panels the role
// does not get are omitted.
type Overview struct {
	Stats       []Stat         `json:"stats"`
	RecentSales []RecentSale   `json:"recent_sales,omitempty"`
	LowStock    []LowStockItem `json:"low_stock,omitempty"`
	QuickSearch []QuickItem    `json:"quick_search,omitempty"`
}

// For builds the overview for role.
func For(role models.Role) (Overview, error) {
	caps, err := policy.Resolve(role)
	if err != nil {
		return Overview{}, err
	}

	var o Overview
	for _, id := range caps.Stats {
		o.Stats = append(o.Stats, stats[id])
	}
	for _, p := range caps.Panels {
		switch p {
		case policy.PanelRecentSales:
			o.RecentSales = append([]RecentSale{}, recentSales...)
		case policy.PanelLowStock:
			o.LowStock = append([]LowStockItem{}, lowStock...)
		case policy.PanelQuickSearch:
			o.QuickSearch = append([]QuickItem{}, quickSearch...)
		}
	}
	return o, nil
}
