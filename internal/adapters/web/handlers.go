package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

// Services bundles the domain services the HTTP layer dispatches into.
type Services struct {
	Users      core.UserService
	Company    core.CompanyService
	Customers  core.CustomerService
	Vendors    core.VendorService
	Categories core.CategoryService
	Taxes      core.TaxService
	Products   core.ProductService
	Quotes     core.QuoteService
	Invoices   core.InvoiceService
	Orders     core.PurchaseOrderService
	Sales      core.SaleService
	Expenses   core.ExpenseService
	Reports    core.ReportingService
}

// Handler holds the domain services and the chi router.
type Handler struct {
	svc       Services
	jwtSecret string
	log       zerolog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc Services, allowedOrigins, jwtSecret string, maxBodyBytes int64, log zerolog.Logger) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(maxBodyBytes))

	// ── Public ──────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API (401 JSON if unauthenticated) ─────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		// Company settings (counters are not writable through here).
		r.Get("/api/company", h.getCompany)
		r.Get("/api/company/settings", h.getSettings)
		r.Put("/api/company/settings", h.updateSettings)

		// Customers
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Get("/api/customers/{id}", h.getCustomer)
		r.Put("/api/customers/{id}", h.updateCustomer)
		r.Delete("/api/customers/{id}", h.deleteCustomer)
		r.Get("/api/customers/{id}/stats", h.customerStats)

		// Vendors
		r.Get("/api/vendors", h.listVendors)
		r.Post("/api/vendors", h.createVendor)
		r.Get("/api/vendors/{id}", h.getVendor)
		r.Put("/api/vendors/{id}", h.updateVendor)
		r.Delete("/api/vendors/{id}", h.deleteVendor)
		r.Get("/api/vendors/{id}/stats", h.vendorStats)

		// Catalog
		r.Get("/api/categories", h.listCategories)
		r.Post("/api/categories", h.createCategory)
		r.Put("/api/categories/{id}", h.updateCategory)
		r.Delete("/api/categories/{id}", h.deleteCategory)
		r.Get("/api/tax-rates", h.listTaxRates)
		r.Post("/api/tax-rates", h.createTaxRate)
		r.Put("/api/tax-rates/{id}", h.updateTaxRate)
		r.Delete("/api/tax-rates/{id}", h.deleteTaxRate)
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Get("/api/products/{id}", h.getProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)
		r.Post("/api/products/{id}/stock", h.adjustStock)

		// Quotes
		r.Get("/api/quotes", h.listQuotes)
		r.Post("/api/quotes", h.createQuote)
		r.Get("/api/quotes/{id}", h.getQuote)
		r.Put("/api/quotes/{id}", h.updateQuote)
		r.Delete("/api/quotes/{id}", h.deleteQuote)
		r.Post("/api/quotes/{id}/send", h.sendQuote)
		r.Post("/api/quotes/{id}/view", h.markQuoteViewed)
		r.Post("/api/quotes/{id}/accept", h.acceptQuote)
		r.Post("/api/quotes/{id}/reject", h.rejectQuote)
		r.Post("/api/quotes/{id}/convert", h.convertQuote)
		r.Post("/api/quotes/expire", h.expireQuotes)

		// Invoices
		r.Get("/api/invoices", h.listInvoices)
		r.Post("/api/invoices", h.createInvoice)
		r.Get("/api/invoices/{id}", h.getInvoice)
		r.Put("/api/invoices/{id}", h.updateInvoice)
		r.Delete("/api/invoices/{id}", h.deleteInvoice)
		r.Post("/api/invoices/{id}/send", h.sendInvoice)
		r.Post("/api/invoices/{id}/payments", h.addPayment)
		r.Post("/api/invoices/{id}/cancel", h.cancelInvoice)
		r.Post("/api/invoices/mark-overdue", h.markOverdue)

		// Purchase orders
		r.Get("/api/purchase-orders", h.listPurchaseOrders)
		r.Post("/api/purchase-orders", h.createPurchaseOrder)
		r.Get("/api/purchase-orders/{id}", h.getPurchaseOrder)
		r.Put("/api/purchase-orders/{id}", h.updatePurchaseOrder)
		r.Delete("/api/purchase-orders/{id}", h.deletePurchaseOrder)
		r.Post("/api/purchase-orders/{id}/send", h.sendPurchaseOrder)
		r.Post("/api/purchase-orders/{id}/confirm", h.confirmPurchaseOrder)
		r.Post("/api/purchase-orders/{id}/start", h.startPurchaseOrder)
		r.Post("/api/purchase-orders/{id}/complete", h.completePurchaseOrder)
		r.Post("/api/purchase-orders/{id}/cancel", h.cancelPurchaseOrder)

		// Sales
		r.Get("/api/sales", h.listSales)
		r.Post("/api/sales", h.createSale)
		r.Get("/api/sales/{id}", h.getSale)
		r.Delete("/api/sales/{id}", h.deleteSale)
		r.Post("/api/sales/{id}/returns", h.recordReturn)

		// Expenses
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.createExpense)
		r.Get("/api/expenses/{id}", h.getExpense)
		r.Put("/api/expenses/{id}", h.updateExpense)
		r.Delete("/api/expenses/{id}", h.deleteExpense)

		// Reports
		r.Get("/api/reports/dashboard", h.dashboard)
		r.Get("/api/reports/sales-by-day", h.salesByDay)
	})

	return r
}

// health reports service liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// companyID returns the authenticated tenant. Routes behind RequireAuth
// always have claims.
func (h *Handler) companyID(r *http.Request) int {
	claims := authFromContext(r.Context())
	if claims == nil {
		return 0
	}
	return claims.CompanyID
}

// urlID extracts and parses the {id} URL parameter.
func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// decodeJSONOptional is decodeJSON for action endpoints whose body is
// optional: an empty body leaves v zero-valued.
func decodeJSONOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
		return false
	}
	writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	return false
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
