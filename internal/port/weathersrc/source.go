// Package weathersrc defines the port interface for weather providers.
package weathersrc

import (
	"context"

	"github.com/joris-vdw/StyleCast/internal/domain/weather"
)

// Source resolves a free-text location to current conditions.
// Implementations return weather.ErrLocationNotFound when the location
// cannot be geocoded and wrap weather.ErrUpstream for provider failures.
type Source interface {
	Current(ctx context.Context, location string) (*weather.Snapshot, error)
}
