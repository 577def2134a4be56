package main

import (
	"log"
	"net/http"

	"loanwizard-go/config"
	"loanwizard-go/database"
	"loanwizard-go/handlers"
	"loanwizard-go/middleware"
	"loanwizard-go/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize config
	cfg := config.Load()
	config.ValidateConfig(cfg)

	// Initialize encryption
	if err := utils.InitializeEncryption(cfg.EncryptionKey); err != nil {
		log.Fatal("Failed to initialize encryption:", err)
	}

	// Initialize JWT
	if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
		log.Fatal("Failed to initialize JWT:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize handlers with config
	h := handlers.NewHandlers(db, cfg)

	// Initialize router
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit)

	// Public routes
	r.HandleFunc("/api/register", h.Register).Methods("POST")
	r.HandleFunc("/api/login", h.Login).Methods("POST")
	r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/terms/current", h.GetCurrentTerms).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth)

	// User routes
	protected.HandleFunc("/user/profile", h.GetProfile).Methods("GET")
	protected.HandleFunc("/user/profile", h.UpdateProfile).Methods("PUT")

	// Application wizard routes
	protected.HandleFunc("/applications/draft", h.GetDraft).Methods("GET")
	protected.HandleFunc("/applications/draft", h.SaveDraft).Methods("POST")
	protected.HandleFunc("/applications/draft/documents", h.SetDocumentsStatus).Methods("POST")
	protected.HandleFunc("/applications", h.ListApplications).Methods("GET")
	protected.HandleFunc("/wizard/advance", h.Advance).Methods("POST")
	protected.HandleFunc("/wizard/back", h.Back).Methods("POST")
	protected.HandleFunc("/wizard/submit", h.SubmitApplication).Methods("POST")

	// Admin routes
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AdminAuth)
	adminRoutes.HandleFunc("/terms", h.PublishTerms).Methods("POST")
	adminRoutes.HandleFunc("/applications/pending", h.GetPendingApplications).Methods("GET")
	adminRoutes.HandleFunc("/applications/review", h.ReviewApplication).Methods("POST")
	adminRoutes.HandleFunc("/audit-logs", h.GetAuditLogs).Methods("GET")
	adminRoutes.HandleFunc("/users", h.GetAllUsers).Methods("GET")

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
