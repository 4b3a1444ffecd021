package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pharmacy-backoffice/internal/handlers"
	"pharmacy-backoffice/internal/middleware"
	"pharmacy-backoffice/internal/policy"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the router around the handlers.
type Options struct {
	CORSOrigins []string
	LoginRate   string
	WebDir      string // empty disables the SPA
}

// New builds the full HTTP surface. Every /api route passes the session
// check and then the capability check for its resource and action.
func New(h *handlers.Handler, opts Options) (*gin.Engine, error) {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	loginLimit, err := middleware.RateLimit(opts.LoginRate)
	if err != nil {
		return nil, err
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", loginLimit, h.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Tokens, h.Sessions))
	{
		api.GET("/session", h.Me)
		api.POST("/logout", h.Logout)
		api.GET("/dashboard", h.Overview)

		allow := middleware.RequireAction

		api.GET("/medicines", allow(policy.Medicines, policy.ActionList), h.ListMedicines)
		api.GET("/medicines/categories", allow(policy.Medicines, policy.ActionList), h.MedicineCategories)
		api.POST("/medicines", allow(policy.Medicines, policy.ActionCreate), h.AddMedicine)
		api.DELETE("/medicines/:id", allow(policy.Medicines, policy.ActionDelete), h.DeleteMedicine)

		api.GET("/sales", allow(policy.Sales, policy.ActionList), h.ListSales)
		api.GET("/sales/catalog", allow(policy.Sales, policy.ActionCreate), h.SaleCatalog)
		api.GET("/sales/:id", allow(policy.Sales, policy.ActionList), h.GetSale)

		sell := api.Group("/cart", allow(policy.Sales, policy.ActionCreate))
		{
			sell.GET("", h.GetCart)
			sell.POST("/lines", h.AddCartLine)
			sell.DELETE("/lines/:id", h.RemoveCartLine)
			sell.POST("/complete", h.CompleteSale)
			sell.DELETE("", h.DiscardCart)
		}

		api.GET("/suppliers", allow(policy.Suppliers, policy.ActionList), h.ListSuppliers)
		api.POST("/suppliers", allow(policy.Suppliers, policy.ActionCreate), h.AddSupplier)
		api.POST("/suppliers/:id/toggle", allow(policy.Suppliers, policy.ActionUpdate), h.ToggleSupplier)
		api.DELETE("/suppliers/:id", allow(policy.Suppliers, policy.ActionDelete), h.DeleteSupplier)

		api.GET("/users", allow(policy.Users, policy.ActionList), h.ListUsers)
		api.POST("/users", allow(policy.Users, policy.ActionCreate), h.AddUser)
		api.POST("/users/:id/toggle", allow(policy.Users, policy.ActionUpdate), h.ToggleUser)

		api.GET("/alerts", allow(policy.Alerts, policy.ActionList), h.ListAlerts)
		api.POST("/alerts/:id/dismiss", allow(policy.Alerts, policy.ActionUpdate), h.DismissAlert)
		api.POST("/alerts/:id/reactivate", allow(policy.Alerts, policy.ActionUpdate), h.ReactivateAlert)

		api.GET("/reports", allow(policy.Reports, policy.ActionList), h.SalesReport)
		api.GET("/reports/valuation", allow(policy.Reports, policy.ActionList), h.StockValuation)
		api.GET("/reports/valuation.xlsx", allow(policy.Reports, policy.ActionList), h.ExportValuation)

		api.POST("/ask", allow(policy.Assistant, policy.ActionCreate), h.AskAssistant)
	}

	if opts.WebDir != "" {
		serveSPA(r, opts.WebDir)
	}
	return r, nil
}

// serveSPA serves the built dashboard and falls back to index.html so the
// client-side router can handle deep links.
func serveSPA(r *gin.Engine, dir string) {
	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/vite.svg", filepath.Join(dir, "vite.svg"))

	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	})
}
