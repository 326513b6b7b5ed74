package main

import (
	"log"
	"os"

	"ai-filevault-be/internal/model"
	"ai-filevault-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Default categories every account starts with. CreatedBy is nil so they are
// visible to all users and never deleted by category cleanup.
var defaultCategories = []string{
	"Banking",
	"Personal",
	"Work",
	"Receipts",
	"Medical",
	"Legal",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding default file categories...")

	created, skipped := 0, 0
	for _, name := range defaultCategories {
		var existing model.FileCategory
		err := db.Where("name = ? AND created_by IS NULL", name).First(&existing).Error
		if err == nil {
			skipped++
			color.Yellow("  skip   %s (already exists)", name)
			continue
		}

		category := model.FileCategory{
			Name:      name,
			IsDefault: true,
		}
		if err := db.Create(&category).Error; err != nil {
			color.Red("  error  %s: %v", name, err)
			continue
		}
		created++
		color.Green("  create %s", name)
	}

	color.Cyan("Done. %d created, %d skipped.", created, skipped)
}
