// Package collision detects when a moving gatherer passes close enough to a static item to collect it.
package collision

import (
	"sort"

	"github.com/beka-birhanu/vinom-roads/game/geom"
)

// Widths of the collidable entities, in map units.
const (
	PlayerWidth = 0.6
	LootWidth   = 0.0
	BaseWidth   = 0.5
)

// CollectionResult is the outcome of projecting an item onto a gatherer's path.
type CollectionResult struct {
	SqDistance float64 // squared distance from the item to the path line
	ProjRatio  float64 // position of the projection along the path, 0 at start and 1 at end
}

// IsCollected reports whether the item projects onto the path and lies within radius of it.
func (r CollectionResult) IsCollected(radius float64) bool {
	return r.ProjRatio >= 0 && r.ProjRatio <= 1 && r.SqDistance <= radius*radius
}

// TryCollect projects c onto the line through a and b.
// When a equals b the ratio is 0 and the distance is measured to a.
func TryCollect(a, b, c geom.Vec2) CollectionResult {
	u := c.Sub(a)
	v := b.Sub(a)

	vv := v.SqLen()
	if vv == 0 {
		return CollectionResult{SqDistance: u.SqLen(), ProjRatio: 0}
	}

	uv := u.Dot(v)
	sq := u.SqLen() - uv*uv/vv
	if sq < 0 {
		sq = 0
	}

	return CollectionResult{SqDistance: sq, ProjRatio: uv / vv}
}

// Item is a static collectible point.
type Item struct {
	Position geom.Vec2
	Width    float64
}

// Gatherer is an entity that travelled from Start to End during the tick.
type Gatherer struct {
	Start geom.Vec2
	End   geom.Vec2
	Width float64
}

// ItemGathererProvider exposes the items and gatherers of one detection pass.
type ItemGathererProvider interface {
	ItemsCount() int
	Item(i int) Item
	GatherersCount() int
	Gatherer(i int) Gatherer
}

// GatheringEvent records that gatherer GathererID passed over item ItemID.
// Time is the fraction of the gatherer's path covered at the moment of collection.
type GatheringEvent struct {
	ItemID     int
	GathererID int
	SqDistance float64
	Time       float64
}

// FindGatherEvents tests every gatherer against every item and returns the
// collections ordered by time, then item index, then gatherer index.
func FindGatherEvents(p ItemGathererProvider) []GatheringEvent {
	var events []GatheringEvent

	for g := 0; g < p.GatherersCount(); g++ {
		gatherer := p.Gatherer(g)
		for i := 0; i < p.ItemsCount(); i++ {
			item := p.Item(i)
			res := TryCollect(gatherer.Start, gatherer.End, item.Position)
			if !res.IsCollected((gatherer.Width + item.Width) / 2) {
				continue
			}
			events = append(events, GatheringEvent{
				ItemID:     i,
				GathererID: g,
				SqDistance: res.SqDistance,
				Time:       res.ProjRatio,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.GathererID < b.GathererID
	})

	return events
}

// Provider is a slice backed ItemGathererProvider.
type Provider struct {
	Items     []Item
	Gatherers []Gatherer
}

func (p *Provider) ItemsCount() int         { return len(p.Items) }
func (p *Provider) Item(i int) Item         { return p.Items[i] }
func (p *Provider) GatherersCount() int     { return len(p.Gatherers) }
func (p *Provider) Gatherer(i int) Gatherer { return p.Gatherers[i] }

// AddItem appends an item and returns its index.
func (p *Provider) AddItem(it Item) int {
	p.Items = append(p.Items, it)
	return len(p.Items) - 1
}

// AddGatherer appends a gatherer and returns its index.
func (p *Provider) AddGatherer(g Gatherer) int {
	p.Gatherers = append(p.Gatherers, g)
	return len(p.Gatherers) - 1
}
