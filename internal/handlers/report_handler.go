package handlers

import (
	"log"
	"net/http"
	"sort"

	"pharmacy-backoffice/internal/models"
	"pharmacy-backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportData defines the shape of our analytics response
type ReportData struct {
	Summary     *store.SalesSummary `json:"summary"`
	TopSelling  []store.TopSeller   `json:"top_selling"`
	RecentSales []models.Sale       `json:"recent_sales"`
}

const recentSalesLimit = 10

// --- GET: /api/reports?from=YYYY-MM-DD&to=YYYY-MM-DD ---
func (h *Handler) SalesReport(c *gin.Context) {
	ctx := c.Request.Context()
	from, to := c.Query("from"), c.Query("to")
	if (from != "" && !isDate(from)) || (to != "" && !isDate(to)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be in YYYY-MM-DD format"})
		return
	}

	var data ReportData
	var err error

	if data.Summary, err = h.Stores.Sales.Summary(ctx, from, to); err != nil {
		log.Printf("sales summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	if data.TopSelling, err = h.Stores.Sales.TopSelling(ctx, 5); err != nil {
		log.Printf("top selling: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	sales, err := h.Stores.Sales.List(ctx)
	if err != nil {
		log.Printf("recent sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}
	if len(sales) > recentSalesLimit {
		sales = sales[:recentSalesLimit]
	}
	data.RecentSales = sales

	c.JSON(http.StatusOK, data)
}

// ValuationItem is one medicine row of the valuation
type ValuationItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CategoryGroup is one category table of the valuation
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ValuationResponse is the value of everything on the shelves, by category
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func buildValuation(medicines []models.Medicine) ValuationResponse {
	grandTotal := decimal.Zero
	groupedMap := make(map[string]*CategoryGroup)

	for _, m := range medicines {
		catName := m.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{CategoryName: catName, Items: []ValuationItem{}, Subtotal: decimal.Zero}
		}

		itemTotal := m.Price.Mul(decimal.NewFromInt(int64(m.Stock)))
		group := groupedMap[catName]
		group.Items = append(group.Items, ValuationItem{
			ID:        m.ID,
			Name:      m.Name,
			Quantity:  m.Stock,
			Price:     m.Price,
			TotalCost: itemTotal,
		})
		group.Subtotal = group.Subtotal.Add(itemTotal)
		grandTotal = grandTotal.Add(itemTotal)
	}

	response := ValuationResponse{Categories: []CategoryGroup{}, GrandTotal: grandTotal}
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}
	sort.Slice(response.Categories, func(i, j int) bool {
		return response.Categories[i].CategoryName < response.Categories[j].CategoryName
	})
	return response
}

func (h *Handler) valuation(c *gin.Context) (ValuationResponse, bool) {
	medicines, err := h.Stores.Medicines.List(c.Request.Context(), store.MedicineFilter{})
	if err != nil {
		log.Printf("valuation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return ValuationResponse{}, false
	}
	return buildValuation(medicines), true
}

// --- GET: /api/reports/valuation ---
func (h *Handler) StockValuation(c *gin.Context) {
	v, ok := h.valuation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, v)
}

const valuationSheet = "Valuation"

// valuationWorkbook lays the valuation out as one sheet: a header row, then
// per category its items and a subtotal row, then the grand total.
func valuationWorkbook(v ValuationResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", valuationSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	put := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(valuationSheet, cell, &values)
	}
	boldRow := func() error {
		start, _ := excelize.CoordinatesToCellName(1, row-1)
		end, _ := excelize.CoordinatesToCellName(6, row-1)
		return f.SetCellStyle(valuationSheet, start, end, bold)
	}

	if err := put("Category", "ID", "Medicine", "Quantity", "Price", "Total"); err != nil {
		return nil, err
	}
	if err := boldRow(); err != nil {
		return nil, err
	}

	for _, g := range v.Categories {
		for _, it := range g.Items {
			price, _ := it.Price.Float64()
			total, _ := it.TotalCost.Float64()
			if err := put(g.CategoryName, it.ID, it.Name, it.Quantity, price, total); err != nil {
				return nil, err
			}
		}
		subtotal, _ := g.Subtotal.Float64()
		if err := put(g.CategoryName+" subtotal", "", "", "", "", subtotal); err != nil {
			return nil, err
		}
		if err := boldRow(); err != nil {
			return nil, err
		}
	}

	grand, _ := v.GrandTotal.Float64()
	if err := put("Grand total", "", "", "", "", grand); err != nil {
		return nil, err
	}
	if err := boldRow(); err != nil {
		return nil, err
	}
	return f, nil
}

// --- GET: /api/reports/valuation.xlsx ---
func (h *Handler) ExportValuation(c *gin.Context) {
	v, ok := h.valuation(c)
	if !ok {
		return
	}

	f, err := valuationWorkbook(v)
	if err != nil {
		log.Printf("build workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("write workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stock-valuation-`+h.now().Format(models.DateLayout)+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
