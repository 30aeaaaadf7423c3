package contract

import (
	"context"

	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/store"
)

// CatalogRepository is the Postgres-backed catalog. Find and FindByID serve the engine;
// Upsert and All serve the seeder and the refresh endpoint.
type CatalogRepository interface {
	catalog.Store
	All(ctx context.Context) ([]store.CatalogItem, error)
	Upsert(ctx context.Context, items []store.CatalogItem) (int, error)
	Count(ctx context.Context) (int64, error)
}
