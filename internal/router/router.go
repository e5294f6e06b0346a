package router

import (
	"context"
	"time"

	"minimarket/internal/config"
	"minimarket/internal/handler"
	"minimarket/internal/middleware"
	"minimarket/internal/model"
	"minimarket/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
)

// Services are the business services the HTTP surface exposes.
type Services struct {
	Auth     service.AuthService
	Products service.ProductService
	Cart     service.CartService
	Sales    service.SaleService
	Cash     service.CashService
	Reports  service.ReportService
	Alerts   service.AlertService
	Audit    service.AuditService
	Receipts service.ReceiptService
}

var (
	allRoles = []model.Role{model.RoleAdmin, model.RoleSupervisor, model.RoleCashier}
	managers = []model.Role{model.RoleAdmin, model.RoleSupervisor}
)

// New returns a configured Gin engine. The rate limiters purge stale
// entries until ctx is cancelled.
// Dependency graph: Handler ← Service ← State container / Product Store
func New(ctx context.Context, cfg *config.Config, svc Services, health handler.HealthDeps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.APIRateLimiter(1000, time.Minute) // 1000 req/min per IP
	loginLimiter := middleware.LoginRateLimiter()
	go apiLimiter.RunPurge(ctx, 5*time.Minute)
	go loginLimiter.RunPurge(ctx, 5*time.Minute)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	productsH := handler.NewProductsHandler(svc.Products)
	cartH := handler.NewCartHandler(svc.Cart)
	salesH := handler.NewSalesHandler(svc.Sales, svc.Receipts)
	cashH := handler.NewCashHandler(svc.Cash)
	reportsH := handler.NewReportsHandler(svc.Reports, svc.Alerts, svc.Audit)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(health))
	r.POST("/v1/auth/login", loginLimiter.Middleware(), authH.Login)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/logout", authH.Logout)
			auth.GET("/me", authH.Me)
		}

		// Catalog reads are open to every role; writes are checked by the service.
		products := v1.Group("/products", middleware.RequireRole(allRoles...))
		{
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}
		v1.GET("/kardex", middleware.RequireRole(allRoles...), productsH.Kardex)

		cart := v1.Group("/cart", middleware.RequireRole(allRoles...))
		{
			cart.GET("", cartH.Get)
			cart.DELETE("", cartH.Clear)
			cart.POST("/items", cartH.AddItem)
			cart.PATCH("/items/:id", cartH.UpdateItem)
			cart.DELETE("/items/:id", cartH.RemoveItem)
			cart.PUT("/checkout-info", cartH.SetCheckoutInfo)
			cart.POST("/checkout", cartH.Checkout)
		}

		sales := v1.Group("/sales", middleware.RequireRole(allRoles...))
		{
			sales.POST("", salesH.Process)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.GET("/:id/receipt", salesH.Receipt)
		}

		cash := v1.Group("/cash", middleware.RequireRole(allRoles...))
		{
			cash.POST("/open", cashH.Open)
			cash.POST("/close", cashH.Close)
			cash.GET("/active", cashH.Active)
			cash.GET("/history", middleware.RequireRole(managers...), cashH.History)
			cash.GET("/:id/report", middleware.RequireRole(managers...), cashH.Report)
		}

		alerts := v1.Group("/alerts", middleware.RequireRole(allRoles...))
		{
			alerts.GET("", reportsH.Alerts)
			alerts.POST("", reportsH.CreateAlert)
			alerts.PATCH("/:id/read", reportsH.MarkAlertRead)
		}

		v1.GET("/reports/dashboard", middleware.RequireRole(allRoles...), reportsH.Dashboard)
		reports := v1.Group("/reports", middleware.RequireRole(managers...))
		{
			reports.GET("/sales", reportsH.Sales)
			reports.GET("/profits", reportsH.Profits)
			reports.GET("/inventory", reportsH.Inventory)
			reports.GET("/products", reportsH.Products)
		}

		v1.GET("/users", middleware.RequireRole(managers...), authH.ListUsers)
		v1.GET("/audit", middleware.RequireRole(managers...), reportsH.Audit)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
