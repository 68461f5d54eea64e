package ports

import (
	"context"

	"github.com/wheelkit/wheelhost/domain/entities"
)

// WheelStore provides persistence for the wheel configuration and the
// enablement map.
type WheelStore interface {
	// Load retrieves the stored state.
	// Returns (nil, nil) if nothing was saved yet.
	Load(ctx context.Context) (*entities.WheelState, error)

	// Save replaces the stored state.
	Save(ctx context.Context, state *entities.WheelState) error

	// Location describes the backing store (for user messaging).
	Location() string

	// Close releases resources held by the store.
	Close() error
}
