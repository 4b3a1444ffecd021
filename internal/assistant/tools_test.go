package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharmacy-backoffice/internal/database"
	"pharmacy-backoffice/internal/store"

	"github.com/google/generative-ai-go/genai"
)

func newTools(t *testing.T) *Tools {
	t.Helper()
	db, err := database.OpenMemory(nil)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := database.Reset(db); err != nil {
		t.Fatalf("reset: %v", err)
	}
	tools := NewTools(store.New(db))
	tools.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return tools
}

func TestCheckInventory(t *testing.T) {
	tools := newTools(t)

	out, err := tools.Execute(context.Background(), genai.FunctionCall{
		Name: "check_inventory",
		Args: map[string]any{"query": "amox"},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := out["inventory"].([]inventoryRow)
	if len(rows) != 1 || rows[0].ID != "MED002" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Price != "15.75" || rows[0].Status != "Low Stock" || !rows[0].ExpiringSoon || rows[0].Expired {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestLowStockAlerts(t *testing.T) {
	tools := newTools(t)

	out, err := tools.Execute(context.Background(), genai.FunctionCall{Name: "list_low_stock_alerts"})
	if err != nil {
		t.Fatal(err)
	}
	if rows := out["alerts"].([]alertRow); len(rows) != 5 {
		t.Errorf("alerts = %d, want 5", len(rows))
	}
	if out["critical"] != 1 {
		t.Errorf("critical = %v", out["critical"])
	}
}

func TestSalesReport(t *testing.T) {
	tools := newTools(t)
	ctx := context.Background()

	out, err := tools.Execute(ctx, genai.FunctionCall{
		Name: "get_sales_report",
		Args: map[string]any{"start_date": "2024-01-01", "end_date": "2024-01-31"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out["revenue"] != "27.25" || out["sales_count"] != int64(2) {
		t.Errorf("report = %v", out)
	}

	out, err = tools.Execute(ctx, genai.FunctionCall{
		Name: "get_sales_report",
		Args: map[string]any{"start_date": "January", "end_date": "2024-01-31"},
	})
	if err != nil || out["error"] == nil {
		t.Errorf("bad date: out=%v err=%v", out, err)
	}
}

func TestCountRecords(t *testing.T) {
	tools := newTools(t)

	out, err := tools.Execute(context.Background(), genai.FunctionCall{Name: "count_records"})
	if err != nil {
		t.Fatal(err)
	}
	if out["medicines"] != int64(3) || out["active_suppliers"] != int64(2) || out["active_alerts"] != int64(5) {
		t.Errorf("counts = %v", out)
	}
}

func TestUnknownTool(t *testing.T) {
	tools := newTools(t)
	_, err := tools.Execute(context.Background(), genai.FunctionCall{Name: "update_product_price"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v", err)
	}
}

func TestReplyParsing(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.FunctionCall{Name: "count_records"},
			genai.Text("There are 3 medicines."),
		}},
	}}}

	if calls := functionCalls(resp); len(calls) != 1 || calls[0].Name != "count_records" {
		t.Errorf("calls = %+v", calls)
	}
	if txt, err := textOf(resp); err != nil || txt != "There are 3 medicines." {
		t.Errorf("text = %q err = %v", txt, err)
	}
	if _, err := textOf(&genai.GenerateContentResponse{}); !errors.Is(err, ErrNoAnswer) {
		t.Errorf("empty response err = %v", err)
	}
}
