package cart

import (
	"context"
	"strings"
	"sync"

	"pharmacy-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// State of a cart. Completed and Discarded are final.
type State string

const (
	Empty     State = "empty"
	Building  State = "building"
	Completed State = "completed"
	Discarded State = "discarded"
)

// Recorder stores a completed sale.
type Recorder interface {
	Record(ctx context.Context, customer string, lines []models.CartLine, total decimal.Decimal) (models.Sale, error)
}

// Cart is one open new-sale dialog. Invalid input is ignored rather than
// reported: every mutator returns whether it changed anything.
type Cart struct {
	mu      sync.Mutex
	catalog Catalog
	lines   []models.CartLine
	state   State
}

func New(catalog Catalog) *Cart {
	return &Cart{catalog: catalog, state: Empty}
}

// View is a point-in-time copy of a cart.
type View struct {
	State State             `json:"state"`
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State: c.state,
		Lines: append([]models.CartLine{}, c.lines...),
		Total: total(c.lines),
	}
}

func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

func total(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

func (c *Cart) open() bool {
	return c.state == Empty || c.state == Building
}

// AddLine puts qty units of a catalog item in the cart. The quantity must be
// between 1 and the item's stock; an existing line for the same item has the
// quantities summed. Anything else leaves the cart untouched.
func (c *Cart) AddLine(ctx context.Context, medicineID string, qty int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open() || qty <= 0 {
		return false, nil
	}
	item, ok, err := c.catalog.Lookup(ctx, medicineID)
	if err != nil {
		return false, err
	}
	if !ok || qty > item.Stock {
		return false, nil
	}

	for i := range c.lines {
		if c.lines[i].MedicineID == item.ID {
			c.lines[i].Quantity += qty
			return true, nil
		}
	}
	c.lines = append(c.lines, models.CartLine{
		MedicineID:    item.ID,
		Name:          item.Name,
		Price:         item.Price,
		Quantity:      qty,
		StockSnapshot: item.Stock,
	})
	c.state = Building
	return true, nil
}

// RemoveLine drops the line for medicineID if there is one.
func (c *Cart) RemoveLine(medicineID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open() {
		return false
	}
	for i := range c.lines {
		if c.lines[i].MedicineID == medicineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			if len(c.lines) == 0 {
				c.state = Empty
			}
			return true
		}
	}
	return false
}

// Complete records the cart as a sale for customer and clears it. It needs
// at least one line and a customer name; otherwise nothing happens.
func (c *Cart) Complete(ctx context.Context, customer string, rec Recorder) (models.Sale, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	customer = strings.TrimSpace(customer)
	if c.state != Building || len(c.lines) == 0 || customer == "" {
		return models.Sale{}, false, nil
	}

	sale, err := rec.Record(ctx, customer, append([]models.CartLine{}, c.lines...), total(c.lines))
	if err != nil {
		return models.Sale{}, false, err
	}
	c.lines = nil
	c.state = Completed
	return sale, true, nil
}

// Discard throws the cart away.
func (c *Cart) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open() {
		c.lines = nil
		c.state = Discarded
	}
}
