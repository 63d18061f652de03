package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/auth"
	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/config"
	"github.com/diewo77/shop-manager/internal/handlers"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/policy"
	"github.com/diewo77/shop-manager/internal/services"
	"github.com/diewo77/shop-manager/internal/storage"
	"github.com/diewo77/shop-manager/pdf"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
	cfg config.Config
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, store storage.Store, cfg config.Config) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
		cfg: cfg,
	}

	taxRate := pdf.DefaultTaxRate
	var settings models.ShopSettings
	if err := db.First(&settings).Error; err == nil {
		taxRate = settings.Invoice.Rate()
	}

	orderSvc := services.NewOrderService(db, taxRate)
	stockSvc := services.NewStockService(db)
	financeSvc := services.NewFinanceService(db)

	app.setupRoutes(store, orderSvc, stockSvc, financeSvc)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(store storage.Store, orderSvc *services.OrderService, stockSvc *services.StockService, financeSvc *services.FinanceService) {
	ah := handlers.NewAuthHandler(a.db)
	ph := handlers.NewProductHandler(a.db, store)
	cath := handlers.NewCategoryHandler(a.db)
	ch := handlers.NewClientHandler(a.db)
	eh := handlers.NewEmployeeHandler(a.db)
	oh := handlers.NewOrderHandler(a.db, orderSvc)
	ivh := handlers.NewInventoryHandler(a.db, stockSvc)
	th := handlers.NewTransactionHandler(a.db, financeSvc)
	sh := handlers.NewSettingsHandler(a.db, store)
	dh := handlers.NewDashboardHandler(a.db, orderSvc, stockSvc, financeSvc)

	// Public routes
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /signup", ah.Signup)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Authenticated, no specific permission
	a.mux.Handle("GET /me", auth.RequireAuth(http.HandlerFunc(ah.Me)))
	a.mux.Handle("GET /dashboard", auth.RequireAuth(http.HandlerFunc(dh.Overview)))

	// Products
	a.handle("GET /products", "product", policy.ActionList, ph.List)
	a.handle("POST /products", "product", policy.ActionCreate, ph.Create)
	a.handle("GET /products/{id}", "product", policy.ActionView, ph.View)
	a.handle("PUT /products/{id}", "product", policy.ActionUpdate, ph.Update)
	a.handle("DELETE /products/{id}", "product", policy.ActionDelete, ph.Delete)
	a.handle("POST /products/{id}/image", "product", policy.ActionUpdate, ph.UploadImage)

	// Categories
	a.handle("GET /categories", "category", policy.ActionList, cath.List)
	a.handle("POST /categories", "category", policy.ActionCreate, cath.Create)
	a.handle("GET /categories/{id}", "category", policy.ActionView, cath.View)
	a.handle("PUT /categories/{id}", "category", policy.ActionUpdate, cath.Update)
	a.handle("DELETE /categories/{id}", "category", policy.ActionDelete, cath.Delete)

	// Clients
	a.handle("GET /clients", "client", policy.ActionList, ch.List)
	a.handle("POST /clients", "client", policy.ActionCreate, ch.Create)
	a.handle("GET /clients/{id}", "client", policy.ActionView, ch.View)
	a.handle("PUT /clients/{id}", "client", policy.ActionUpdate, ch.Update)
	a.handle("DELETE /clients/{id}", "client", policy.ActionDelete, ch.Delete)

	// Employees
	a.handle("GET /employees", "employee", policy.ActionList, eh.List)
	a.handle("POST /employees", "employee", policy.ActionCreate, eh.Create)
	a.handle("GET /employees/{id}", "employee", policy.ActionView, eh.View)
	a.handle("PUT /employees/{id}", "employee", policy.ActionUpdate, eh.Update)
	a.handle("DELETE /employees/{id}", "employee", policy.ActionDelete, eh.Delete)

	// Orders
	a.handle("GET /orders", "order", policy.ActionList, oh.List)
	a.handle("POST /orders", "order", policy.ActionCreate, oh.Create)
	a.handle("GET /orders/{id}", "order", policy.ActionView, oh.View)
	a.handle("DELETE /orders/{id}", "order", policy.ActionDelete, oh.Delete)
	a.handle("POST /orders/{id}/items", "order", policy.ActionUpdate, oh.AddItem)
	a.handle("DELETE /orders/{id}/items/{itemID}", "order", policy.ActionUpdate, oh.RemoveItem)
	a.handle("POST /orders/{id}/finalize", "order", policy.ActionUpdate, oh.Finalize)
	a.handle("POST /orders/{id}/pay", "order", policy.ActionUpdate, oh.MarkPaid)
	a.handle("GET /orders/{id}/invoice", "order", policy.ActionView, oh.Invoice)
	a.handle("GET /orders/{id}/invoice/print", "order", policy.ActionView, oh.InvoicePrint)

	// Inventory
	a.handle("GET /inventory/movements", "inventory", policy.ActionList, ivh.Movements)
	a.handle("POST /inventory/adjust", "inventory", policy.ActionUpdate, ivh.Adjust)
	a.handle("GET /inventory/low-stock", "inventory", policy.ActionList, ivh.LowStock)

	// Finances
	a.handle("GET /transactions", "transaction", policy.ActionList, th.List)
	a.handle("POST /transactions", "transaction", policy.ActionCreate, th.Create)
	a.handle("GET /transactions/{id}", "transaction", policy.ActionView, th.View)
	a.handle("PUT /transactions/{id}", "transaction", policy.ActionUpdate, th.Update)
	a.handle("DELETE /transactions/{id}", "transaction", policy.ActionDelete, th.Delete)
	a.handle("GET /finances/summary", "transaction", policy.ActionList, th.Summary)
	a.handle("GET /finances/report", "transaction", policy.ActionList, th.Report)

	// Settings
	a.handle("GET /settings", "settings", policy.ActionView, sh.Get)
	a.handle("PUT /settings", "settings", policy.ActionUpdate, sh.Update)
	a.handle("POST /settings/reset", "settings", policy.ActionUpdate, sh.Reset)
	a.handle("POST /settings/logo", "settings", policy.ActionUpdate, sh.UploadLogo)

	// Uploaded files when running on local storage
	if a.cfg.Storage.S3Bucket == "" {
		a.mux.Handle("GET /uploads/",
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.cfg.Storage.LocalDir))))
	}
}

func (a *App) handle(pattern, resource string, action policy.Action, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(a.requirePermission(resource, action)(h)))
}

// requirePermission resolves the caller's role and checks it against the
// role permission table. DEV mode skips the check.
func (a *App) requirePermission(resource string, action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.cfg.App.Dev {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			var user models.User
			if err := a.db.First(&user, userID).Error; err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !policy.Can(user.Role, resource, action) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
