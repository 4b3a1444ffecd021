package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmacy-backoffice/internal/auth"
	"pharmacy-backoffice/internal/cart"
	"pharmacy-backoffice/internal/database"
	"pharmacy-backoffice/internal/handlers"
	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

type fakeAsker struct {
	reply string
	err   error
}

func (f fakeAsker) Ask(context.Context, string) (string, error) { return f.reply, f.err }

type testServer struct {
	t *testing.T
	r http.Handler
}

func newServer(t *testing.T, asker handlers.Asker) *testServer {
	t.Helper()
	db, err := database.OpenMemory(nil)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := database.Reset(db); err != nil {
		t.Fatalf("reset: %v", err)
	}

	stores := store.NewWithClock(db, func() time.Time { return fixedNow })
	h := handlers.New(
		stores,
		auth.NewTokens([]byte("test-secret"), time.Hour),
		auth.NewMemoryStore(),
		cart.NewRegistry(cart.DefaultCatalog()),
		asker,
	).WithClock(func() time.Time { return fixedNow })

	r, err := New(h, Options{CORSOrigins: []string{"http://localhost:5173"}, LoginRate: "1000-M"})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testServer{t: t, r: r}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, role string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/login", "", gin.H{"username": username, "password": "anything", "role": role})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s/%s: %d %s", username, role, w.Code, w.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &resp)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
}

func TestLogin(t *testing.T) {
	s := newServer(t, nil)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"empty username", gin.H{"username": "  ", "password": "x", "role": "Admin"}, http.StatusBadRequest},
		{"unknown role", gin.H{"username": "ann", "password": "x", "role": "Owner"}, http.StatusBadRequest},
		{"no password needed", gin.H{"username": "ann", "role": "Cashier"}, http.StatusOK},
		{"any password", gin.H{"username": "ann", "password": "wrong", "role": "Admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/login", "", tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var resp struct {
				Authenticated bool   `json:"authenticated"`
				Token         string `json:"token"`
				Error         string `json:"error"`
			}
			decode(t, w, &resp)
			if resp.Authenticated != (tt.want == http.StatusOK) {
				t.Errorf("authenticated = %v", resp.Authenticated)
			}
			if tt.want != http.StatusOK && (resp.Token != "" || resp.Error != "") {
				t.Errorf("failed login leaked %s", w.Body)
			}
		})
	}
}

func TestSessionCapabilities(t *testing.T) {
	s := newServer(t, nil)

	tests := []struct {
		role  string
		tabs  []string
		stats int
	}{
		{"Admin", []string{"overview", "medicines", "sales", "inventory", "suppliers", "users", "alerts"}, 4},
		{"Pharmacist", []string{"overview", "medicines", "sales"}, 2},
		{"Cashier", []string{"overview", "medicines", "sales"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token := s.login("someone", tt.role)

			var me struct {
				Username     string `json:"username"`
				Capabilities struct {
					Tabs  []string `json:"tabs"`
					Stats []string `json:"stats"`
				} `json:"capabilities"`
			}
			decode(t, s.do(http.MethodGet, "/api/session", token, nil), &me)
			if me.Username != "someone" {
				t.Errorf("username = %q", me.Username)
			}
			if len(me.Capabilities.Tabs) != len(tt.tabs) {
				t.Fatalf("tabs = %v", me.Capabilities.Tabs)
			}
			for i := range tt.tabs {
				if me.Capabilities.Tabs[i] != tt.tabs[i] {
					t.Errorf("tabs = %v", me.Capabilities.Tabs)
				}
			}
			if len(me.Capabilities.Stats) != tt.stats {
				t.Errorf("stats = %v", me.Capabilities.Stats)
			}
		})
	}
}

func TestDashboardPanels(t *testing.T) {
	s := newServer(t, nil)

	var overview map[string]json.RawMessage
	decode(t, s.do(http.MethodGet, "/api/dashboard", s.login("sam", "Cashier"), nil), &overview)
	if _, ok := overview["low_stock"]; ok {
		t.Error("cashier sees low stock panel")
	}
	if _, ok := overview["recent_sales"]; !ok {
		t.Error("cashier misses recent sales")
	}

	overview = nil
	decode(t, s.do(http.MethodGet, "/api/dashboard", s.login("root", "Admin"), nil), &overview)
	if _, ok := overview["low_stock"]; !ok {
		t.Error("admin misses low stock panel")
	}
}

func TestHiddenTabsAreNotReachable(t *testing.T) {
	s := newServer(t, nil)
	cashier := s.login("sam", "Cashier")
	admin := s.login("root", "Admin")

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/suppliers"},
		{http.MethodGet, "/api/alerts"},
		{http.MethodPost, "/api/medicines"},
		{http.MethodGet, "/api/reports"},
		{http.MethodPost, "/api/ask"},
	}
	for _, rt := range routes {
		if w := s.do(rt.method, rt.path, cashier, gin.H{}); w.Code != http.StatusForbidden {
			t.Errorf("cashier %s %s = %d", rt.method, rt.path, w.Code)
		}
	}

	if w := s.do(http.MethodGet, "/api/users", admin, nil); w.Code != http.StatusOK {
		t.Errorf("admin users = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/medicines", cashier, nil); w.Code != http.StatusOK {
		t.Errorf("cashier medicines = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/users", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous users = %d", w.Code)
	}
}

func TestMedicines(t *testing.T) {
	s := newServer(t, nil)
	admin := s.login("root", "Admin")

	var list []struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		ExpiringSoon bool   `json:"expiring_soon"`
	}
	decode(t, s.do(http.MethodGet, "/api/medicines?q=PAIN&category=Pain+Relief", admin, nil), &list)
	if len(list) != 0 {
		t.Errorf("search matched category text: %+v", list)
	}
	decode(t, s.do(http.MethodGet, "/api/medicines?category=Antibiotics", admin, nil), &list)
	if len(list) != 1 || list[0].ID != "MED002" || list[0].Status != "Low Stock" {
		t.Errorf("antibiotics = %+v", list)
	}

	w := s.do(http.MethodPost, "/api/medicines", admin, gin.H{"name": "Zinc", "category": "Vitamins", "stock": 0, "price": "4.00"})
	if w.Code != http.StatusUnprocessableEntity || w.Body.String() != `{"created":false}` {
		t.Errorf("incomplete create = %d %s", w.Code, w.Body)
	}

	w = s.do(http.MethodPost, "/api/medicines", admin, gin.H{"name": "Zinc", "category": "Vitamins", "stock": 40, "price": "4.00"})
	var created struct {
		Created  bool `json:"created"`
		Medicine struct {
			ID         string `json:"id"`
			ExpiryDate string `json:"expiry_date"`
			Supplier   string `json:"supplier"`
			Threshold  int    `json:"threshold"`
			Status     string `json:"status"`
		} `json:"medicine"`
	}
	decode(t, w, &created)
	if w.Code != http.StatusCreated || created.Medicine.ID != "MED004" {
		t.Fatalf("create = %d %s", w.Code, w.Body)
	}
	if created.Medicine.ExpiryDate != "2025-12-31" || created.Medicine.Supplier != "Unknown" || created.Medicine.Threshold != 20 {
		t.Errorf("defaults = %+v", created.Medicine)
	}

	w = s.do(http.MethodDelete, "/api/medicines/MED004", admin, nil)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("delete = %d", w.Code)
	}
	decode(t, s.do(http.MethodGet, "/api/medicines", admin, nil), &list)
	if len(list) != 4 {
		t.Errorf("delete removed a row: %d left", len(list))
	}
}

type cartBody struct {
	State string `json:"state"`
	Lines []struct {
		MedicineID string `json:"medicine_id"`
		Quantity   int    `json:"quantity"`
	} `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func TestCartFlow(t *testing.T) {
	s := newServer(t, nil)
	cashier := s.login("sam", "Cashier")

	add := func(id string, qty int) (bool, cartBody) {
		var resp struct {
			Added bool     `json:"added"`
			Cart  cartBody `json:"cart"`
		}
		decode(t, s.do(http.MethodPost, "/api/cart/lines", cashier, gin.H{"medicine_id": id, "quantity": qty}), &resp)
		return resp.Added, resp.Cart
	}

	if ok, _ := add("MED001", 2); !ok {
		t.Fatal("add MED001 rejected")
	}
	ok, c := add("MED002", 1)
	if !ok || !c.Total.Equal(decimal.RequireFromString("20.75")) || c.State != "building" {
		t.Fatalf("cart = %+v", c)
	}
	if ok, c = add("MED002", 10); ok || len(c.Lines) != 2 {
		t.Errorf("over-stock add changed cart: %+v", c)
	}

	w := s.do(http.MethodPost, "/api/cart/complete", cashier, gin.H{"customer": ""})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("complete without customer = %d", w.Code)
	}

	w = s.do(http.MethodPost, "/api/cart/complete", cashier, gin.H{"customer": "Ann Lee"})
	var done struct {
		Completed bool `json:"completed"`
		Sale      struct {
			ID    string          `json:"id"`
			Date  string          `json:"date"`
			Total decimal.Decimal `json:"total"`
		} `json:"sale"`
	}
	decode(t, w, &done)
	if w.Code != http.StatusCreated || done.Sale.ID != "INV-003" || done.Sale.Date != "2024-02-01" || !done.Sale.Total.Equal(decimal.RequireFromString("20.75")) {
		t.Fatalf("complete = %d %s", w.Code, w.Body)
	}

	var sales []struct {
		ID string `json:"id"`
	}
	decode(t, s.do(http.MethodGet, "/api/sales", cashier, nil), &sales)
	if len(sales) != 3 || sales[0].ID != "INV-003" {
		t.Errorf("sales = %+v", sales)
	}

	var fresh cartBody
	decode(t, s.do(http.MethodGet, "/api/cart", cashier, nil), &fresh)
	if fresh.State != "empty" || len(fresh.Lines) != 0 {
		t.Errorf("cart after complete = %+v", fresh)
	}
}

func TestCartDiscardAndRemove(t *testing.T) {
	s := newServer(t, nil)
	token := s.login("pat", "Pharmacist")

	s.do(http.MethodPost, "/api/cart/lines", token, gin.H{"medicine_id": "MED003", "quantity": 1})
	s.do(http.MethodPost, "/api/cart/lines", token, gin.H{"medicine_id": "MED004", "quantity": 1})

	var resp struct {
		Removed bool     `json:"removed"`
		Cart    cartBody `json:"cart"`
	}
	decode(t, s.do(http.MethodDelete, "/api/cart/lines/MED003", token, nil), &resp)
	if !resp.Removed || len(resp.Cart.Lines) != 1 || !resp.Cart.Total.Equal(decimal.RequireFromString("1.75")) {
		t.Errorf("remove = %+v", resp)
	}

	if w := s.do(http.MethodDelete, "/api/cart", token, nil); w.Code != http.StatusNoContent {
		t.Errorf("discard = %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/cart/complete", token, gin.H{"customer": "Ann"}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("complete after discard = %d", w.Code)
	}
}

func TestSuppliersAndUsers(t *testing.T) {
	s := newServer(t, nil)
	admin := s.login("root", "Admin")

	var sup struct {
		Status string `json:"status"`
	}
	decode(t, s.do(http.MethodPost, "/api/suppliers/SUP003/toggle", admin, nil), &sup)
	if sup.Status != "Active" {
		t.Errorf("toggled status = %q", sup.Status)
	}
	if w := s.do(http.MethodPost, "/api/suppliers/SUP999/toggle", admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown supplier = %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/suppliers", admin, gin.H{"name": "Acme", "contact": "Al"}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("incomplete supplier = %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/api/suppliers/SUP001", admin, nil); w.Code != http.StatusNotImplemented {
		t.Errorf("delete supplier = %d", w.Code)
	}

	var users []struct {
		ID string `json:"id"`
	}
	decode(t, s.do(http.MethodGet, "/api/users?role=Cashier", admin, nil), &users)
	if len(users) != 2 {
		t.Errorf("cashiers = %+v", users)
	}

	w := s.do(http.MethodPost, "/api/users", admin, gin.H{"username": "newbie", "email": "n@pharmacy.com", "role": "Pharmacist", "password": "s3cret"})
	if w.Code != http.StatusCreated || bytes.Contains(w.Body.Bytes(), []byte("s3cret")) {
		t.Errorf("create user = %d %s", w.Code, w.Body)
	}
}

func TestAlerts(t *testing.T) {
	s := newServer(t, nil)
	admin := s.login("root", "Admin")

	var a struct {
		Status     string `json:"status"`
		Priority   string `json:"priority"`
		StockLevel string `json:"stock_level"`
	}
	decode(t, s.do(http.MethodPost, "/api/alerts/ALT001/dismiss", admin, nil), &a)
	if a.Status != "Dismissed" || a.Priority != "High" || a.StockLevel != "warning" {
		t.Errorf("dismissed = %+v", a)
	}

	var board struct {
		Active    []json.RawMessage `json:"active"`
		Dismissed []json.RawMessage `json:"dismissed"`
		Critical  []json.RawMessage `json:"critical"`
	}
	decode(t, s.do(http.MethodGet, "/api/alerts", admin, nil), &board)
	if len(board.Active) != 4 || len(board.Dismissed) != 1 || len(board.Critical) != 1 {
		t.Errorf("board = %d/%d/%d", len(board.Active), len(board.Dismissed), len(board.Critical))
	}

	if w := s.do(http.MethodPost, "/api/alerts/ALT001/reactivate", admin, nil); w.Code != http.StatusOK {
		t.Errorf("reactivate = %d", w.Code)
	}
}

func TestReports(t *testing.T) {
	s := newServer(t, nil)
	admin := s.login("root", "Admin")

	var report struct {
		Summary struct {
			TotalRevenue decimal.Decimal `json:"total_revenue"`
			TotalCount   int             `json:"total_count"`
		} `json:"summary"`
		RecentSales []json.RawMessage `json:"recent_sales"`
	}
	decode(t, s.do(http.MethodGet, "/api/reports?from=2024-01-01&to=2024-01-31", admin, nil), &report)
	if report.Summary.TotalCount != 2 || !report.Summary.TotalRevenue.Equal(decimal.RequireFromString("27.25")) {
		t.Errorf("summary = %+v", report.Summary)
	}
	if w := s.do(http.MethodGet, "/api/reports?from=yesterday", admin, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d", w.Code)
	}

	var valuation struct {
		Categories []struct {
			CategoryName string          `json:"category_name"`
			Subtotal     decimal.Decimal `json:"subtotal"`
		} `json:"categories"`
		GrandTotal decimal.Decimal `json:"grand_total"`
	}
	decode(t, s.do(http.MethodGet, "/api/reports/valuation", admin, nil), &valuation)
	// 150*2.50 + 75*3.25 = 618.75, 8*15.75 = 126
	if len(valuation.Categories) != 2 || valuation.Categories[0].CategoryName != "Antibiotics" {
		t.Fatalf("categories = %+v", valuation.Categories)
	}
	if !valuation.GrandTotal.Equal(decimal.RequireFromString("744.75")) {
		t.Errorf("grand total = %s", valuation.GrandTotal)
	}

	w := s.do(http.MethodGet, "/api/reports/valuation.xlsx", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Valuation", "C2"); v != "Amoxicillin 250mg" {
		t.Errorf("C2 = %q", v)
	}
}

func TestAssistant(t *testing.T) {
	disabled := newServer(t, nil)
	w := disabled.do(http.MethodPost, "/api/ask", disabled.login("root", "Admin"), gin.H{"message": "hi"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("no key = %d", w.Code)
	}

	s := newServer(t, fakeAsker{reply: "3 medicines"})
	admin := s.login("root", "Admin")
	var resp struct {
		Reply string `json:"reply"`
	}
	decode(t, s.do(http.MethodPost, "/api/ask", admin, gin.H{"message": "how many medicines?"}), &resp)
	if resp.Reply != "3 medicines" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if w := s.do(http.MethodPost, "/api/ask", admin, gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty message = %d", w.Code)
	}

	failing := newServer(t, fakeAsker{err: errors.New("quota")})
	if w := failing.do(http.MethodPost, "/api/ask", failing.login("root", "Admin"), gin.H{"message": "x"}); w.Code != http.StatusInternalServerError {
		t.Errorf("failing assistant = %d", w.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	s := newServer(t, nil)
	token := s.login("sam", "Cashier")

	if w := s.do(http.MethodPost, "/api/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/session", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("session after logout = %d", w.Code)
	}
}
