package store

import (
	"context"
	"errors"
	"time"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrCorrupt  = errors.New("persistence_corrupt")
)

// Store keeps one durable state record per auction id plus one
// prior-generation backup, and the read-only auction config as a
// separate record. A state write must rotate the previous durable copy
// into the backup before the new copy becomes current.
type Store interface {
	SaveConfig(ctx context.Context, id string, cfg auction.Config) error
	LoadConfig(ctx context.Context, id string) (auction.Config, error)

	SaveState(ctx context.Context, id string, st *auction.State) error
	LoadState(ctx context.Context, id string) (*auction.State, error)
	// LoadBackupState reads the prior-generation copy; callers fall
	// back to it when the current record is unreadable or fails the
	// engine's invariant check.
	LoadBackupState(ctx context.Context, id string) (*auction.State, error)

	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close()
}

// stateRecord is the persisted envelope around a state.
type stateRecord struct {
	SavedAt time.Time      `json:"saved_at"`
	State   *auction.State `json:"state"`
}
