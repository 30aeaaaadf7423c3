package main

import (
	"context"
	"flag"
	"log"

	"phone-store-be/internal/config"
	"phone-store-be/internal/model"
	"phone-store-be/internal/repository/implementation"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/database"
	"phone-store-be/pkg/textnorm"
)

func main() {
	cfg := config.Load()

	path := flag.String("file", cfg.Assistant.CatalogSeedPath, "JSON catalog to load")
	flag.Parse()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultPoolConfig(), cfg.Database.Verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Migrating catalog tables...")
	if err := db.AutoMigrate(&model.Brand{}, &model.Product{}); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	items, err := catalog.LoadItems(*path)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	// stored columns must be normalized exactly like queries
	lexicon, err := textnorm.LoadLexicon(cfg.Assistant.LexiconPath)
	if err != nil {
		log.Fatal("Error: ", err)
	}
	repo := implementation.NewCatalogRepository(db, textnorm.New(lexicon).Normalize)

	log.Printf("Seeding %d products from %s...", len(items), *path)
	written, err := repo.Upsert(context.Background(), items)
	if err != nil {
		log.Fatal("Error: Seeding failed:", err)
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		log.Fatal("Error: ", err)
	}
	log.Printf("Catalog seeding completed! upserted=%d total=%d", written, total)
}
