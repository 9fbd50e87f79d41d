package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/ratewise-dev/ratewise/db"
	"github.com/ratewise-dev/ratewise/internal/auth"
	"github.com/ratewise-dev/ratewise/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	gdb, err := db.ConnectDatabase(os.Getenv("DATABASE_URL"))

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.SeedAdmin(gdb); err != nil {
		log.Fatalf("Failed to seed administrator account: %v", err)
	}

	r := router.NewRouter(gdb)

	port := os.Getenv("PORT")

	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
