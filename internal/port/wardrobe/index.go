// Package wardrobeindex defines the port interface for the semantic catalog index.
package wardrobeindex

import (
	"context"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

// Index is the ranked-search contract the selection pipeline relies on.
// Implementations must be safe for concurrent readers; write operations
// come only from the administrative wardrobe service.
type Index interface {
	// Search returns up to limit items ranked by relevance to the query.
	Search(ctx context.Context, query string, limit int) ([]wardrobe.Item, error)
	// SearchCategory is Search restricted to one category.
	SearchCategory(ctx context.Context, query string, category wardrobe.Category, limit int) ([]wardrobe.Item, error)
	// Stats summarizes the indexed catalog.
	Stats(ctx context.Context) (*wardrobe.Stats, error)

	// Add indexes an item. Remove and Clear unindex; they never fail on
	// missing entries.
	Add(ctx context.Context, item wardrobe.Item) error
	Remove(ctx context.Context, id string) bool
	Clear(ctx context.Context) error
	// ListAll returns every indexed item in insertion order.
	ListAll(ctx context.Context) ([]wardrobe.Item, error)
}
