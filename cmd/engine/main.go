package main

import (
	"log"
	"os"
	"strconv"

	"github.com/ringlens/muling-engine/internal/api"
	"github.com/ringlens/muling-engine/internal/db"
)

func main() {
	log.Println("Starting Ringlens Muling Detection Engine (graph-based ledger forensics)...")

	// ─── Environment Configuration ──────────────────────────────────────
	// DATABASE_URL is optional: without it the engine still analyzes
	// ledgers, it just keeps no run history. Use a .env file for local
	// development: cp .env.example .env && edit .env
	// ────────────────────────────────────────────────────────────────────

	var dbConn *db.PostgresStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without run history. Error: %v", err)
		} else {
			dbConn = conn
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set, run history disabled")
	}

	// Setup WebSocket hub for real-time ring alerts
	wsHub := api.NewHub()
	go wsHub.Run()

	alertThreshold := getEnvFloat("RING_ALERT_THRESHOLD", 75)

	r := api.SetupRouter(dbConn, wsHub, alertThreshold)

	port := getEnvOrDefault("PORT", "5341")

	log.Printf("Engine running on :%s (ring alert threshold %.1f)\n", port, alertThreshold)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvFloat parses a float env var, falling back on absence or junk.
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s value %q, using default %.1f", key, os.Getenv(key), fallback)
	}
	return fallback
}
