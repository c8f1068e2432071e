package game

import (
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
)

// BagItem is a loot item carried by a player.
type BagItem struct {
	ID   uint64 // id of the loot it was picked up as
	Type int
}

// Loot is an item lying on a map.
type Loot struct {
	ID   uint64
	Type int
	Pos  geom.Vec2
}

// Player is a gatherer driving on one map.
type Player struct {
	ID       uint64
	MapID    string
	Name     string
	Token    string
	Pos      geom.Vec2
	Speed    geom.Vec2
	Dir      roadmap.Direction
	Bag      []BagItem
	Base     geom.Vec2
	Score    uint64
	IdleTime time.Duration
	Retired  bool
	JoinedAt *time.Duration // world clock at the first tick after joining
}

// IsMoving reports whether the player has a nonzero speed.
func (p Player) IsMoving() bool {
	return !p.Speed.IsZero()
}

// clone returns a copy of p sharing no memory with it.
func (p *Player) clone() Player {
	c := *p
	c.Bag = slices.Clone(p.Bag)
	if p.JoinedAt != nil {
		at := *p.JoinedAt
		c.JoinedAt = &at
	}
	return c
}

// steer applies a direction command.
func (p *Player) steer(dir roadmap.Direction, speed float64) {
	if dir == roadmap.Stop {
		p.Speed = geom.Vec2{}
		return
	}
	p.Dir = dir
	p.Speed = dir.Unit().Scale(speed)
}

// bank converts the bag into score.
func (p *Player) bank(m *roadmap.Map) {
	for _, item := range p.Bag {
		if v := m.LootValue(item.Type); v > 0 {
			p.Score += uint64(v)
		}
	}
	p.Bag = nil
}
