package game

import (
	"context"
	"time"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/infrastruture/snapshot"
)

// LootGenerator decides how many loot items to spawn on a map during one tick.
type LootGenerator interface {
	Generate(elapsed time.Duration, lootCount, looterCount uint) uint
}

// RetiredWriter receives the records of players retired during a tick.
type RetiredWriter interface {
	WriteRetired(ctx context.Context, records []domain.RetiredPlayer) error
}

// SnapshotStore persists the mutable world state.
type SnapshotStore interface {
	// Save replaces the stored snapshot.
	Save(snap snapshot.SnapshotV1) error

	// Load returns the stored snapshot. The boolean is false when nothing was stored yet.
	Load() (snapshot.SnapshotV1, bool, error)
}
