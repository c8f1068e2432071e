package game

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/game/collision"
	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
	"github.com/beka-birhanu/vinom-roads/infrastruture/snapshot"
)

// Advance moves the simulation forward by dt. Non-positive steps are ignored.
//
// Maps are processed in configuration order and players in join order. A panic
// while processing one player or map is logged and only skips that entity.
func (w *World) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}

	w.Lock()
	for _, id := range w.mapOrder {
		w.safely("map "+id, func() { w.advanceMap(id, dt) })
	}
	w.now += dt

	var snap *snapshot.SnapshotV1
	if w.snapshotPeriod != nil && w.now-w.lastSnapshot >= *w.snapshotPeriod {
		s := w.buildSnapshot()
		snap = &s
		w.lastSnapshot = w.now
	}
	w.Unlock()

	if snap != nil {
		if err := w.writeSnapshot(*snap); err != nil {
			w.logger.Error(fmt.Sprintf("saving snapshot: %s", err))
		}
	}
}

func (w *World) advanceMap(mapID string, dt time.Duration) {
	m := w.maps[mapID]
	players := w.players[mapID]

	retired := w.retireIdle(mapID, players, dt)

	items := &collision.Provider{}
	for _, l := range w.loot[mapID] {
		items.AddItem(collision.Item{Position: l.Pos, Width: collision.LootWidth})
	}

	var gatherers []*Player
	for idx, p := range players {
		w.safely(playerLabel(mapID, idx), func() {
			if p.Retired || !p.IsMoving() {
				return
			}
			from := p.Pos
			travel(p, m, dt)
			if reachedBase(from, p.Pos, p.Base) {
				p.bank(m)
			}
			items.AddGatherer(collision.Gatherer{Start: from, End: p.Pos, Width: collision.PlayerWidth})
			gatherers = append(gatherers, p)
		})
	}

	claimed := w.pickUp(m, items, gatherers, w.loot[mapID])

	w.flushRetired(retired)

	if len(claimed) > 0 {
		w.loot[mapID] = slices.DeleteFunc(w.loot[mapID], func(l Loot) bool {
			_, ok := claimed[l.ID]
			return ok
		})
	}

	w.spawnLoot(m, dt)
}

// retireIdle updates idle timers and retires players idle for too long.
func (w *World) retireIdle(mapID string, players []*Player, dt time.Duration) []domain.RetiredPlayer {
	var retired []domain.RetiredPlayer
	for idx, p := range players {
		w.safely(playerLabel(mapID, idx), func() {
			if rec, ok := w.retireIfIdle(p, dt); ok {
				retired = append(retired, rec)
			}
		})
	}
	return retired
}

func (w *World) retireIfIdle(p *Player, dt time.Duration) (domain.RetiredPlayer, bool) {
	if p.Retired {
		return domain.RetiredPlayer{}, false
	}
	if p.JoinedAt == nil {
		at := w.now
		p.JoinedAt = &at
	}
	if p.IsMoving() {
		p.IdleTime = 0
		return domain.RetiredPlayer{}, false
	}

	p.IdleTime += dt
	if p.IdleTime < w.retirementTime {
		return domain.RetiredPlayer{}, false
	}

	p.Retired = true
	delete(w.tokenToPlayer, p.Token)
	delete(w.tokenToMap, p.Token)
	w.logger.Info(fmt.Sprintf("player retired: ID=%d Name=%s Score=%d", p.ID, p.Name, p.Score))

	return domain.RetiredPlayer{
		ID:          p.ID,
		Name:        p.Name,
		Score:       p.Score,
		PlaySeconds: (w.now + dt - *p.JoinedAt).Seconds(),
	}, true
}

// playerLabel names a player by its join position so that a corrupt entry can still be reported.
func playerLabel(mapID string, idx int) string {
	return fmt.Sprintf("player #%d on map %s", idx, mapID)
}

func reachedBase(from, to, base geom.Vec2) bool {
	check := &collision.Provider{}
	check.AddItem(collision.Item{Position: base, Width: collision.BaseWidth})
	check.AddGatherer(collision.Gatherer{Start: from, End: to, Width: collision.PlayerWidth})
	return len(collision.FindGatherEvents(check)) > 0
}

// pickUp moves loot into bags in event order and returns the ids of claimed loot.
func (w *World) pickUp(m *roadmap.Map, items *collision.Provider, gatherers []*Player, loot []Loot) map[uint64]struct{} {
	claimed := make(map[uint64]struct{})
	if len(gatherers) == 0 || len(loot) == 0 {
		return claimed
	}

	capacity := m.EffectiveBagCapacity(w.defaultBagCapacity)
	for _, ev := range collision.FindGatherEvents(items) {
		l := loot[ev.ItemID]
		if _, taken := claimed[l.ID]; taken {
			continue
		}
		p := gatherers[ev.GathererID]
		if len(p.Bag) >= capacity {
			continue
		}
		p.Bag = append(p.Bag, BagItem{ID: l.ID, Type: l.Type})
		claimed[l.ID] = struct{}{}
	}

	return claimed
}

func (w *World) flushRetired(records []domain.RetiredPlayer) {
	if len(records) == 0 || w.retiredWriter == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), retiredWriteTimeout)
	defer cancel()

	if err := w.retiredWriter.WriteRetired(ctx, records); err != nil {
		w.logger.Error(fmt.Sprintf("writing %d retired players: %s", len(records), err))
	}
}

func (w *World) spawnLoot(m *roadmap.Map, dt time.Duration) {
	generator := w.lootGenerators[m.ID]
	if generator == nil {
		return
	}

	var looters uint
	for _, p := range w.players[m.ID] {
		if !p.Retired {
			looters++
		}
	}

	count := generator.Generate(dt, uint(len(w.loot[m.ID])), looters)
	if len(m.LootTypes) == 0 {
		return
	}

	for n := uint(0); n < count; n++ {
		pos, ok := m.RandomRoadPoint(w.rng)
		if !ok {
			return
		}
		w.nextLootID++
		w.loot[m.ID] = append(w.loot[m.ID], Loot{
			ID:   w.nextLootID,
			Type: w.rng.Intn(len(m.LootTypes)),
			Pos:  pos,
		})
	}
}

func (w *World) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(fmt.Sprintf("recovered while advancing %s: %v", what, r))
		}
	}()
	fn()
}
