package service

import (
	"context"

	"phone-store-be/internal/repository/contract"
	"phone-store-be/pkg/catalog"
)

// staticSource reloads the JSON seed into the in-process catalog
type staticSource struct {
	store *catalog.StaticStore
	path  string
}

func NewStaticSource(s *catalog.StaticStore, seedPath string) CatalogSource {
	return &staticSource{store: s, path: seedPath}
}

func (s *staticSource) Name() string {
	return "file:" + s.path
}

func (s *staticSource) Reload(_ context.Context) (int, error) {
	items, err := catalog.LoadItems(s.path)
	if err != nil {
		return 0, err
	}
	s.store.Replace(items)
	return len(items), nil
}

// repositorySource upserts the JSON seed into Postgres
type repositorySource struct {
	repo contract.CatalogRepository
	path string
}

func NewRepositorySource(repo contract.CatalogRepository, seedPath string) CatalogSource {
	return &repositorySource{repo: repo, path: seedPath}
}

func (s *repositorySource) Name() string {
	return "postgres"
}

func (s *repositorySource) Reload(ctx context.Context) (int, error) {
	items, err := catalog.LoadItems(s.path)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.Upsert(ctx, items); err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx)
	return int(n), err
}
