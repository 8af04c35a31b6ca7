package cart

import (
	"context"
	"errors"

	"tiffinbox/internal/domain"
)

// Store persists cart line items keyed by their owner. The engine
// writes through after every mutation and reads once at session start.
type Store interface {
	Load(ctx context.Context, ownerID string) ([]domain.CartLineItem, error)
	Save(ctx context.Context, ownerID string, items []domain.CartLineItem) error
	Clear(ctx context.Context, ownerID string) error
}

var (
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	ErrSnapshotCorrupt  = errors.New("cart snapshot is not decodable")
)
