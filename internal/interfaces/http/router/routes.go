package router

import "github.com/sarva/backend/internal/interfaces/http/handler"

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Company  *handler.CompanyHandler
	Cycle    *handler.CycleHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Sale     *handler.SaleHandler
	Order    *handler.OrderHandler
	Report   *handler.ReportHandler
	Health   *handler.HealthHandler
}

// DomainGroups builds the route groups of the versioned API
func DomainGroups(h Handlers) []RouteRegistrar {
	companies := NewDomainGroup("companies", "/companies").
		POST("", h.Company.Create).
		GET("/search", h.Company.Search).
		POST("/:id/approve", h.Company.Approve).
		DELETE("/:id", h.Company.Delete)

	cycles := NewDomainGroup("cycles", "/cycles").
		GET("", h.Cycle.List).
		POST("", h.Cycle.Create).
		PUT("/:id", h.Cycle.Update).
		DELETE("/:id", h.Cycle.Delete)

	products := NewDomainGroup("products", "/products").
		GET("", h.Product.Search).
		POST("", h.Product.Create).
		PUT("/:codigo/cycles/:cycleId", h.Product.Update).
		DELETE("/:codigo/cycles/:cycleId", h.Product.Delete)

	customers := NewDomainGroup("customers", "/customers").
		GET("", h.Customer.List).
		POST("", h.Customer.Create).
		GET("/search", h.Customer.Search).
		POST("/scores", h.Customer.RecomputeScores).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete).
		POST("/:id/score", h.Customer.RecomputeScore)

	sales := NewDomainGroup("sales", "/sales").
		GET("", h.Sale.List).
		POST("", h.Sale.Create).
		GET("/:id", h.Sale.GetByID).
		PUT("/:id", h.Sale.Update).
		DELETE("/:id", h.Sale.Delete).
		POST("/:id/lines", h.Sale.AddLine).
		DELETE("/:id/lines/:codigo/:cycleId", h.Sale.RemoveLine).
		POST("/:id/discount", h.Sale.ApplyDiscount).
		POST("/:id/total", h.Sale.PostTotal).
		GET("/:id/total", h.Sale.TotalValue).
		POST("/:id/finalize", h.Sale.Finalize).
		POST("/:id/payment", h.Sale.RecordPayment)

	orders := NewDomainGroup("orders", "/orders").
		GET("", h.Order.List).
		POST("", h.Order.Create).
		GET("/:id", h.Order.GetByID).
		PUT("/:id", h.Order.Update).
		DELETE("/:id", h.Order.Delete).
		GET("/:id/available-lines", h.Order.AvailableLines).
		POST("/:id/lines", h.Order.AddLine).
		DELETE("/:id/lines/:lineId", h.Order.RemoveLine).
		POST("/:id/recompute", h.Order.Recompute).
		POST("/:id/finalize", h.Order.Finalize).
		GET("/:id/summary", h.Order.Summary)

	reports := NewDomainGroup("reports", "/reports").
		GET("/profit", h.Report.Profit)

	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Check)

	return []RouteRegistrar{companies, cycles, products, customers, sales, orders, reports, health}
}
