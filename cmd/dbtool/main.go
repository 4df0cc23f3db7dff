package main

import (
	"commute-radius-service/internal/adapters/repositories"
	"commute-radius-service/internal/config"
	"commute-radius-service/internal/platform/db"
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	driver, err := db.DriverFor(config.Get("LOCALITY_SOURCE", "postgres"))
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(driver, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("LOCALITY_PATH", "data/localities.json")
	if err := initAndSeed(context.Background(), conn, driver, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, driver, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding localities from %s...", seedPath)
	n, err := repositories.SeedFromJSON(ctx, conn, driver, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. rows=%d", n)

	return nil
}
