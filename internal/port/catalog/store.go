// Package catalog defines the port interface for durable item storage.
package catalog

import (
	"context"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

// Store persists the wardrobe catalog. The semantic index is rebuilt from
// it at boot; writes go through it before the index is updated.
type Store interface {
	SaveItem(ctx context.Context, item wardrobe.Item) error
	DeleteItem(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	ListItems(ctx context.Context) ([]wardrobe.Item, error)
}
