package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/auth"
	"github.com/handymantracker/backend/internal/db"
	"github.com/handymantracker/backend/internal/handlers"
	"github.com/handymantracker/backend/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		logger.WithError(err).Warn("no .env file loaded")
	}

	uri := os.Getenv("MONGOURI")
	if uri == "" {
		logger.Fatal("MONGOURI environment variable not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET environment variable not set")
	}
	dbName := os.Getenv("DATABASE")
	if dbName == "" {
		dbName = "handymandb"
	}

	client, err := db.Connect(context.Background(), uri)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx, client); err != nil {
			logger.WithError(err).Error("error disconnecting from MongoDB")
		}
	}()
	logger.Info("connected to MongoDB")

	database := client.Database(dbName)

	// Initialize services and handlers
	userService := services.NewUserService(database, logger)
	if err := userService.EnsureIndexes(context.Background()); err != nil {
		logger.WithError(err).Fatal("failed to create user indexes")
	}
	customerService := services.NewCustomerService(database, logger)
	inventoryService := services.NewInventoryService(database, logger)
	supplierService := services.NewSupplierService(database, logger)
	poService := services.NewPurchaseOrderService(database, inventoryService, logger)

	tokens := auth.NewTokenService(secret)
	mw := auth.NewMiddleware(tokens, userService, logger)

	userHandler := handlers.NewUserHandler(userService, tokens, logger)
	customerHandler := handlers.NewCustomerHandler(customerService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)
	supplierHandler := handlers.NewSupplierHandler(supplierService, logger)
	poHandler := handlers.NewPurchaseOrderHandler(poService, logger)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	// Public routes: registration, login, and the customer bid intake form.
	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/register", userHandler.Register).Methods("POST")
	public.HandleFunc("/login", userHandler.Login).Methods("POST")
	public.HandleFunc("/customer-bid", customerHandler.SubmitBid).Methods("POST")

	// Everything else requires a valid token on an approved account.
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(mw.Authenticate)

	protected.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	protected.HandleFunc("/customers", customerHandler.GetCustomers).Methods("GET")
	protected.HandleFunc("/customers/{customerID}", customerHandler.GetCustomer).Methods("GET")
	protected.HandleFunc("/customers/{customerID}", customerHandler.UpdateCustomer).Methods("PUT")
	protected.HandleFunc("/customers/{customerID}", customerHandler.DeleteCustomer).Methods("DELETE")
	protected.HandleFunc("/customers/{customerID}/projects", customerHandler.AddProject).Methods("POST")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}", customerHandler.RemoveProject).Methods("DELETE")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/bid", customerHandler.BidProject).Methods("PUT")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/bill", customerHandler.BillProject).Methods("PUT")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/schedule", customerHandler.ScheduleProject).Methods("PUT")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/complete", customerHandler.CompleteProject).Methods("PUT")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/materials", customerHandler.AddMaterial).Methods("POST")
	protected.HandleFunc("/customers/{customerID}/projects/{projectID}/materials/{materialID}", customerHandler.RemoveMaterial).Methods("DELETE")

	protected.HandleFunc("/inventory", inventoryHandler.CreateItem).Methods("POST")
	protected.HandleFunc("/inventory", inventoryHandler.GetItems).Methods("GET")
	protected.HandleFunc("/inventory/low", inventoryHandler.GetLowStock).Methods("GET")
	protected.HandleFunc("/inventory/{itemID}", inventoryHandler.GetItem).Methods("GET")
	protected.HandleFunc("/inventory/{itemID}", inventoryHandler.UpdateItem).Methods("PUT")
	protected.HandleFunc("/inventory/{itemID}/adjust", inventoryHandler.AdjustQuantity).Methods("PUT")
	protected.HandleFunc("/inventory/{itemID}", inventoryHandler.DeleteItem).Methods("DELETE")

	protected.HandleFunc("/suppliers", supplierHandler.CreateSupplier).Methods("POST")
	protected.HandleFunc("/suppliers", supplierHandler.GetSuppliers).Methods("GET")
	protected.HandleFunc("/suppliers/{supplierID}", supplierHandler.GetSupplier).Methods("GET")
	protected.HandleFunc("/suppliers/{supplierID}", supplierHandler.UpdateSupplier).Methods("PUT")
	protected.HandleFunc("/suppliers/{supplierID}", supplierHandler.DeleteSupplier).Methods("DELETE")

	protected.HandleFunc("/purchase-orders/generate", poHandler.Generate).Methods("POST")
	protected.HandleFunc("/purchase-orders", poHandler.GetOrders).Methods("GET")
	protected.HandleFunc("/purchase-orders/{poID}", poHandler.GetOrder).Methods("GET")
	protected.HandleFunc("/purchase-orders/{poID}/submit", poHandler.Submit).Methods("PUT")
	protected.HandleFunc("/purchase-orders/{poID}/receive", poHandler.Receive).Methods("PUT")
	protected.Handle("/purchase-orders/{poID}",
		mw.RequireAdmin(http.HandlerFunc(poHandler.DeleteOrder))).Methods("DELETE")

	// Admin user management.
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(mw.RequireAdmin)
	admin.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{userID}/approve", userHandler.Approve).Methods("PUT")
	admin.HandleFunc("/users/{userID}/reject", userHandler.Reject).Methods("PUT")

	// Promotion and deletion are reserved for super-admins.
	admin.Handle("/users/{userID}/promote",
		mw.RequireSuperAdmin(http.HandlerFunc(userHandler.Promote))).Methods("PUT")
	admin.Handle("/users/{userID}",
		mw.RequireSuperAdmin(http.HandlerFunc(userHandler.DeleteUser))).Methods("DELETE")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.WithField("port", port).Info("server running")
	logger.Fatal(server.ListenAndServe())
}
