package main

import (
	"log"
	"os"

	"notefiber-todo/internal/model"
	"notefiber-todo/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.Open(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	models := model.All()
	color.Cyan("Running AutoMigrate for %d tables...", len(models))

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			color.Red("  FAIL %T: %v", m, err)
			os.Exit(1)
		}
		color.Green("  OK   %T", m)
	}

	color.Green("Migration completed successfully.")
}
