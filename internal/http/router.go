package http

import (
	"net/http"

	"billing-backend/internal/handlers"
	"billing-backend/internal/live"
	"billing-backend/internal/middleware"
	"billing-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	productHandler *handlers.ProductHandler,
	supplierHandler *handlers.SupplierHandler,
	taxHandler *handlers.TaxHandler,
	invoiceHandler *handlers.InvoiceHandler,
	healthHandler *handlers.HealthHandler,
	hub *live.Hub,
	authMiddleware *middleware.AuthMiddleware,
	uploadsDir string,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Locally stored product images
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	// Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.Create).Methods("POST")
	customersAPI.HandleFunc("/{id}", customerHandler.Get).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Update).Methods("PUT")
	customersAPI.HandleFunc("/{id}", customerHandler.Delete).Methods("DELETE")
	customersAPI.HandleFunc("/{id}/deposit", customerHandler.Deposit).Methods("POST")
	customersAPI.HandleFunc("/{id}/withdraw", customerHandler.Withdraw).Methods("POST")

	// Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.List).Methods("GET")
	productsAPI.HandleFunc("", productHandler.Create).Methods("POST")
	productsAPI.HandleFunc("/{id}", productHandler.Get).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.Update).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.Delete).Methods("DELETE")
	productsAPI.HandleFunc("/{id}/stock-in", productHandler.StockIn).Methods("POST")
	productsAPI.HandleFunc("/{id}/stock-out", productHandler.StockOut).Methods("POST")
	productsAPI.HandleFunc("/{id}/image", productHandler.UploadImage).Methods("POST")

	// Suppliers
	suppliersAPI := r.PathPrefix("/api/suppliers").Subrouter()
	suppliersAPI.Use(authMiddleware.Authenticate)
	suppliersAPI.HandleFunc("", supplierHandler.List).Methods("GET")
	suppliersAPI.HandleFunc("", supplierHandler.Create).Methods("POST")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.Get).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.Update).Methods("PUT")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.Delete).Methods("DELETE")

	// Tax policy; only admins may change it
	taxAPI := r.PathPrefix("/api/tax").Subrouter()
	taxAPI.Use(authMiddleware.Authenticate)
	taxAPI.HandleFunc("", taxHandler.Get).Methods("GET")
	taxAPI.HandleFunc("",
		authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(taxHandler.Update)).ServeHTTP).Methods("PUT")

	// Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	invoicesAPI.HandleFunc("/stream", hub.ServeHTTP).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Amend).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Delete).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.PDF).Methods("GET")

	return r
}
