package i

import (
	"context"
	"time"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/game"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
)

// World is the part of the simulation the request layer talks to.
type World interface {
	Join(mapID, userName string) (string, uint64, error)
	Move(token, mapID string, dir roadmap.Direction) bool
	Players(mapID string) ([]game.Player, error)
	State(token string) (game.State, error)
	MapIDForToken(token string) (string, bool)
	Maps() []game.MapSummary
	Map(id string) (*roadmap.Map, error)
}

// Clock advances the simulation on request and reports completed ticks.
type Clock interface {
	Step(delta time.Duration)
	Autonomous() bool
	OnTick(fn func())
}

// Records reads the retired players ranking.
type Records interface {
	Records(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error)
}
