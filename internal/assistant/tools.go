package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/store"

	"github.com/google/generative-ai-go/genai"
)

var ErrUnknownTool = errors.New("unknown tool")

// declarations are the functions the model may call.
var declarations = []*genai.FunctionDeclaration{
	{
		Name:        "check_inventory",
		Description: "Get the medicine inventory. Use this to find ANY medicine details like ID, Category, Price, Stock, Expiry or Supplier.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query":    {Type: genai.TypeString, Description: "Part of a medicine name or ID. Leave empty for everything."},
				"category": {Type: genai.TypeString, Description: "Exact category, e.g. Pain Relief"},
			},
		},
	},
	{
		Name:        "list_low_stock_alerts",
		Description: "List the active low-stock alerts with their priority and stock level.",
	},
	{
		Name:        "get_sales_report",
		Description: "Get total sales revenue and number of sales for a date range.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
				"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
			},
			Required: []string{"start_date", "end_date"},
		},
	},
	{
		Name:        "count_records",
		Description: "Count medicines, active suppliers and active alerts.",
	},
}

// Tools runs the assistant's function calls against the stores. Every tool
// is read-only.
type Tools struct {
	stores *store.Stores
	now    func() time.Time
}

func NewTools(stores *store.Stores) *Tools {
	return &Tools{stores: stores, now: time.Now}
}

type inventoryRow struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	Stock        int                `json:"stock"`
	Price        string             `json:"price"`
	Status       models.StockStatus `json:"status"`
	ExpiryDate   string             `json:"expiry_date"`
	Expired      bool               `json:"expired"`
	ExpiringSoon bool               `json:"expiring_soon"`
	Supplier     string             `json:"supplier"`
}

type alertRow struct {
	Medicine string            `json:"medicine"`
	Stock    int               `json:"stock"`
	Priority models.Priority   `json:"priority"`
	Level    models.StockLevel `json:"level"`
}

// Execute runs one function call and returns its response payload.
func (t *Tools) Execute(ctx context.Context, call genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case "check_inventory":
		medicines, err := t.stores.Medicines.List(ctx, store.MedicineFilter{
			Term:     stringArg(call.Args, "query"),
			Category: stringArg(call.Args, "category"),
		})
		if err != nil {
			return nil, err
		}
		now := t.now()
		rows := make([]inventoryRow, 0, len(medicines))
		for _, m := range medicines {
			rows = append(rows, inventoryRow{
				ID:           m.ID,
				Name:         m.Name,
				Category:     m.Category,
				Stock:        m.Stock,
				Price:        m.Price.StringFixed(2),
				Status:       m.Status(),
				ExpiryDate:   m.ExpiryDate,
				Expired:      m.Expired(now),
				ExpiringSoon: !m.Expired(now) && m.ExpiresWithin(now, 30),
				Supplier:     m.Supplier,
			})
		}
		return map[string]any{"inventory": rows}, nil

	case "list_low_stock_alerts":
		board, err := t.stores.Alerts.Board(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]alertRow, 0, len(board.Active))
		for _, a := range board.Active {
			rows = append(rows, alertRow{Medicine: a.MedicineName, Stock: a.CurrentStock, Priority: a.Priority, Level: a.Level()})
		}
		return map[string]any{"alerts": rows, "critical": len(board.Critical)}, nil

	case "get_sales_report":
		start := stringArg(call.Args, "start_date")
		end := stringArg(call.Args, "end_date")
		if !validDate(start) || !validDate(end) {
			return map[string]any{"error": "Dates must be in YYYY-MM-DD format."}, nil
		}
		report, err := t.stores.Sales.Summary(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"revenue":     report.TotalRevenue.StringFixed(2),
			"sales_count": report.TotalCount,
		}, nil

	case "count_records":
		medicines, err := t.stores.Medicines.Count(ctx)
		if err != nil {
			return nil, err
		}
		suppliers, err := t.stores.Suppliers.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		alerts, err := t.stores.Alerts.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"medicines":        medicines,
			"active_suppliers": suppliers,
			"active_alerts":    alerts,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
