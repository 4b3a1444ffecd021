// Package policy is the single table that decides what each role may see and
// do on the dashboard. Tabs, summary stats, overview panels and API actions
// are all resolved here; nothing else branches on a role.
package policy

import (
	"errors"

	"pharmacy-backoffice/internal/models"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrForbidden   = errors.New("action not permitted for role")
)

// TabID names a dashboard tab.
type TabID string

const (
	TabOverview  TabID = "overview"
	TabMedicines TabID = "medicines"
	TabSales     TabID = "sales"
	TabInventory TabID = "inventory"
	TabSuppliers TabID = "suppliers"
	TabUsers     TabID = "users"
	TabAlerts    TabID = "alerts"
)

// StatID names one of the fixed summary metrics.
type StatID string

const (
	StatTotalMedicines  StatID = "total_medicines"
	StatLowStockItems   StatID = "low_stock_items"
	StatTodaySales      StatID = "today_sales"
	StatActiveSuppliers StatID = "active_suppliers"
)

// AllStats is the fixed, ordered list of summary metrics.
var AllStats = []StatID{StatTotalMedicines, StatLowStockItems, StatTodaySales, StatActiveSuppliers}

// Panel names a card on the overview tab.
type Panel string

const (
	PanelRecentSales Panel = "recent_sales"
	PanelLowStock    Panel = "low_stock"
	PanelQuickSearch Panel = "quick_search"
)

// Resource is a collection or feature an action applies to.
type Resource string

const (
	Medicines Resource = "medicines"
	Sales     Resource = "sales"
	Suppliers Resource = "suppliers"
	Users     Resource = "users"
	Alerts    Resource = "alerts"
	Reports   Resource = "reports"
	Assistant Resource = "assistant"
)

// Action describes the kind of operation a role wants to perform.
type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Capabilities is everything a role is allowed to see and do.
type Capabilities struct {
	Role    models.Role           `json:"role"`
	Tabs    []TabID               `json:"tabs"`
	Stats   []StatID              `json:"stats"`
	Panels  []Panel               `json:"panels"`
	Actions map[Resource][]Action `json:"actions"`
}

var baseTabs = []TabID{TabOverview, TabMedicines, TabSales}

var staffActions = map[Resource][]Action{
	Medicines: {ActionList},
	Sales:     {ActionList, ActionCreate},
}

var table = map[models.Role]Capabilities{
	models.RoleAdmin: {
		Tabs:   append(append([]TabID{}, baseTabs...), TabInventory, TabSuppliers, TabUsers, TabAlerts),
		Stats:  AllStats,
		Panels: []Panel{PanelRecentSales, PanelLowStock},
		Actions: map[Resource][]Action{
			// delete is offered on medicines and suppliers but removes nothing
			Medicines: {ActionList, ActionCreate, ActionDelete},
			Sales:     {ActionList, ActionCreate},
			Suppliers: {ActionList, ActionCreate, ActionUpdate, ActionDelete},
			Users:     {ActionList, ActionCreate, ActionUpdate},
			Alerts:    {ActionList, ActionUpdate},
			Reports:   {ActionList},
			Assistant: {ActionCreate},
		},
	},
	models.RolePharmacist: {
		Tabs:    baseTabs,
		Stats:   []StatID{AllStats[0], AllStats[2]},
		Panels:  []Panel{PanelRecentSales, PanelQuickSearch},
		Actions: staffActions,
	},
	models.RoleCashier: {
		Tabs:    baseTabs,
		Stats:   []StatID{AllStats[0], AllStats[2]},
		Panels:  []Panel{PanelRecentSales},
		Actions: staffActions,
	},
}

// Resolve returns a copy of the capabilities of role.
func Resolve(role models.Role) (Capabilities, error) {
	c, ok := table[role]
	if !ok {
		return Capabilities{}, ErrUnknownRole
	}

	out := Capabilities{
		Role:    role,
		Tabs:    append([]TabID{}, c.Tabs...),
		Stats:   append([]StatID{}, c.Stats...),
		Panels:  append([]Panel{}, c.Panels...),
		Actions: make(map[Resource][]Action, len(c.Actions)),
	}
	for r, acts := range c.Actions {
		out.Actions[r] = append([]Action{}, acts...)
	}
	return out, nil
}

// VisibleTabs lists the tabs of role in display order. Unknown roles see none.
func VisibleTabs(role models.Role) []TabID {
	c, err := Resolve(role)
	if err != nil {
		return nil
	}
	return c.Tabs
}

// VisibleStats lists the summary metrics of role in display order.
func VisibleStats(role models.Role) []StatID {
	c, err := Resolve(role)
	if err != nil {
		return nil
	}
	return c.Stats
}

// CanSee reports whether the tab is visible to role.
func CanSee(role models.Role, tab TabID) bool {
	for _, t := range table[role].Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Authorize returns nil when role may perform action on resource.
func Authorize(role models.Role, resource Resource, action Action) error {
	c, ok := table[role]
	if !ok {
		return ErrUnknownRole
	}
	for _, a := range c.Actions[resource] {
		if a == action {
			return nil
		}
	}
	return ErrForbidden
}

// Can is Authorize as a bool.
func Can(role models.Role, resource Resource, action Action) bool {
	return Authorize(role, resource, action) == nil
}

// ManagesInventory reports whether the medicines tab shows the full
// inventory manager rather than the read-only search.
func ManagesInventory(role models.Role) bool {
	return Can(role, Medicines, ActionCreate)
}
