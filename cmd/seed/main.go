package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
	"github.com/mithunreddyy/valuva-sub002/internal/db"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productService := service.NewProductService(productRepo, categoryRepo)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, summary, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Rows: %d, skipped: %d, products to import: %d\n", summary.Rows, summary.Skipped, len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categoryIDs := make(map[string]uint)
	imported, existing, failed := 0, 0, 0
	for _, p := range products {
		exists, err := productRepo.SlugExists(p.Input.Slug, 0)
		if err != nil {
			log.Fatal("Failed to check product slug:", err)
		}
		if exists {
			existing++
			continue
		}

		categoryID, ok := categoryIDs[p.CategorySlug]
		if !ok {
			category, err := categoryRepo.FindBySlug(p.CategorySlug)
			if err != nil {
				fmt.Printf("  skip %s: unknown category %q\n", p.Input.Slug, p.CategorySlug)
				failed++
				continue
			}
			categoryID = category.ID
			categoryIDs[p.CategorySlug] = categoryID
		}
		p.Input.CategoryID = categoryID

		if _, err := productService.CreateProduct(p.Input); err != nil {
			fmt.Printf("  skip %s: %v\n", p.Input.Slug, err)
			failed++
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("  Imported: %d\n  Already present: %d\n  Failed: %d\n", imported, existing, failed)
}
