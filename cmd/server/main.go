package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"
	"github.com/therabridge/therabridge-backend/internal/config"
	"github.com/therabridge/therabridge-backend/internal/database"
	"github.com/therabridge/therabridge-backend/internal/middleware"
	"github.com/therabridge/therabridge-backend/internal/routes"
	"github.com/therabridge/therabridge-backend/internal/services"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL (admin audit trail)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Log connection attempt (without showing password)
	log.Printf("Connecting to MongoDB...")
	if cfg.MongoURI != "" {
		maskedURI := cfg.MongoURI
		if strings.Contains(maskedURI, "@") {
			parts := strings.Split(maskedURI, "@")
			if len(parts) > 0 && strings.Contains(parts[0], ":") {
				userPass := strings.Split(parts[0], ":")
				if len(userPass) >= 3 {
					maskedURI = strings.Replace(maskedURI, userPass[2], "***", 1)
				}
			}
		}
		log.Printf("MongoDB URI: %s", maskedURI)
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Ensure MongoDB indexes for notifications and therapist directories
	if err := services.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Install the status transition table
	services.ConfigureTransitions(services.DefaultTransitions(cfg.AllowReactivation))
	if cfg.AllowReactivation {
		log.Println("✅ Status transitions configured (inactive → active allowed)")
	} else {
		log.Println("✅ Status transitions configured (inactive is terminal)")
	}

	// Setup router
	r := chi.NewRouter()

	// CORS first so preflight never hits the rate limiter
	middleware.ConfigureClientIP(cfg.TrustProxyHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging (skipped in production)
	if !cfg.IsProduction() {
		log.Println("📋 Registered routes:")
		_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			log.Printf("  %-6s %s", method, route)
			return nil
		})
	}

	log.Printf("🚀 Therabridge backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
