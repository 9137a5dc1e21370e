// Package store persists the engine's full-state snapshot. Each backend
// treats the snapshot as one opaque blob: the whole state is overwritten on
// every save and read back once at startup.
package store

import (
	"context"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

// Store loads and saves whole-state snapshots.
type Store interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}
