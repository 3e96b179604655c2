package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/port/catalog"
	wardrobeindex "github.com/joris-vdw/StyleCast/internal/port/wardrobe"
)

// WardrobeService administers the clothing catalog: durable storage in the
// catalog store, searchable copy in the index. Writes go through both;
// reads serve from the index.
type WardrobeService struct {
	store  catalog.Store
	index  wardrobeindex.Index
	logger *slog.Logger
}

func NewWardrobeService(store catalog.Store, index wardrobeindex.Index, logger *slog.Logger) *WardrobeService {
	return &WardrobeService{
		store:  store,
		index:  index,
		logger: logger.With("service", "wardrobe"),
	}
}

// WarmIndex loads the stored catalog into the search index. Called once at
// startup.
func (s *WardrobeService) WarmIndex(ctx context.Context) (int, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	for _, item := range items {
		if err := s.index.Add(ctx, item); err != nil {
			return 0, fmt.Errorf("index %s: %w", item.ID, err)
		}
	}
	s.logger.Info("wardrobe index warmed", "items", len(items))
	return len(items), nil
}

// Add validates and stores a new item, then indexes it.
func (s *WardrobeService) Add(ctx context.Context, req wardrobe.CreateRequest) (*wardrobe.Item, error) {
	item, err := req.Build(uuid.NewString(), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	if err := s.index.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("index item: %w", err)
	}
	s.logger.Info("wardrobe item added", "id", item.ID, "name", item.Name, "category", item.Category)
	return &item, nil
}

// Remove deletes an item from storage and the index. Returns false when no
// item with the ID exists.
func (s *WardrobeService) Remove(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.DeleteItem(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	s.index.Remove(ctx, id)
	if deleted {
		s.logger.Info("wardrobe item removed", "id", id)
	}
	return deleted, nil
}

// Clear empties the whole catalog.
func (s *WardrobeService) Clear(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	s.logger.Info("wardrobe cleared")
	return nil
}

// ListAll returns every item in insertion order.
func (s *WardrobeService) ListAll(ctx context.Context) ([]wardrobe.Item, error) {
	return s.index.ListAll(ctx)
}

// Stats summarizes the catalog.
func (s *WardrobeService) Stats(ctx context.Context) (*wardrobe.Stats, error) {
	return s.index.Stats(ctx)
}

// Search runs a free query over the catalog, optionally restricted to one
// category.
func (s *WardrobeService) Search(ctx context.Context, query string, category string, limit int) ([]wardrobe.Item, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if category != "" {
		cat, err := wardrobe.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		return s.index.SearchCategory(ctx, query, cat, limit)
	}
	return s.index.Search(ctx, query, limit)
}

// SeedStarter loads the built-in starter catalog. Items already present are
// left alone; seeding is additive.
func (s *WardrobeService) SeedStarter(ctx context.Context) (int, error) {
	added := 0
	for _, req := range starterItems() {
		if _, err := s.Add(ctx, req); err != nil {
			return added, fmt.Errorf("seed %q: %w", req.Name, err)
		}
		added++
	}
	s.logger.Info("starter wardrobe seeded", "items", added)
	return added, nil
}
