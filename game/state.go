package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/roadmap"
	"github.com/beka-birhanu/vinom-roads/infrastruture/snapshot"
)

var ErrNoSnapshotStore = errors.New("no snapshot store configured")

// Save writes the current state to the snapshot store.
func (w *World) Save() error {
	if w.store == nil {
		return ErrNoSnapshotStore
	}

	w.RLock()
	snap := w.buildSnapshot()
	w.RUnlock()

	return w.writeSnapshot(snap)
}

// writeSnapshot stores snap unless a newer snapshot was already written.
func (w *World) writeSnapshot(snap snapshot.SnapshotV1) error {
	if w.store == nil {
		return nil
	}

	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	if snap.Counters.Clock < w.lastWritten {
		return nil
	}
	if err := w.store.Save(snap); err != nil {
		return err
	}
	w.lastWritten = snap.Counters.Clock
	return nil
}

// buildSnapshot must be called with the lock held. Retired players are left out.
func (w *World) buildSnapshot() snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header:        snapshot.Header{Version: snapshot.Version, SavedAt: time.Now().UTC()},
		TokenToPlayer: make(map[string]uint64, len(w.tokenToPlayer)),
		TokenToMap:    make(map[string]string, len(w.tokenToMap)),
		PlayerNames:   make(map[uint64]string),
		Players:       make(map[string][]snapshot.PlayerV1, len(w.players)),
		Loot:          make(map[string][]snapshot.LootV1, len(w.loot)),
		Counters: snapshot.CountersV1{
			NextPlayer: w.nextPlayerID,
			NextLoot:   w.nextLootID,
			Clock:      w.now,
		},
	}

	for token, id := range w.tokenToPlayer {
		snap.TokenToPlayer[token] = id
	}
	for token, mapID := range w.tokenToMap {
		snap.TokenToMap[token] = mapID
	}

	for mapID, players := range w.players {
		for _, p := range players {
			if p.Retired {
				continue
			}
			snap.Players[mapID] = append(snap.Players[mapID], playerToV1(p))
			snap.PlayerNames[p.ID] = w.playerNames[p.ID]
			snap.Header.Players++
		}
	}

	for mapID, loot := range w.loot {
		for _, l := range loot {
			snap.Loot[mapID] = append(snap.Loot[mapID], snapshot.LootV1{ID: l.ID, Type: l.Type, Pos: l.Pos})
		}
	}

	return snap
}

func playerToV1(p *Player) snapshot.PlayerV1 {
	c := p.clone()
	bag := make([]snapshot.BagItemV1, 0, len(c.Bag))
	for _, b := range c.Bag {
		bag = append(bag, snapshot.BagItemV1{ID: b.ID, Type: b.Type})
	}
	return snapshot.PlayerV1{
		ID:       c.ID,
		MapID:    c.MapID,
		Name:     c.Name,
		Token:    c.Token,
		Pos:      c.Pos,
		Speed:    c.Speed,
		Dir:      c.Dir.String(),
		Bag:      bag,
		Base:     c.Base,
		Score:    c.Score,
		JoinedAt: c.JoinedAt,
	}
}

func playerFromV1(v snapshot.PlayerV1) (*Player, error) {
	dir, err := roadmap.ParseDirection(v.Dir)
	if err != nil {
		return nil, err
	}

	p := &Player{
		ID:       v.ID,
		MapID:    v.MapID,
		Name:     v.Name,
		Token:    v.Token,
		Pos:      v.Pos,
		Speed:    v.Speed,
		Dir:      dir,
		Base:     v.Base,
		Score:    v.Score,
		JoinedAt: v.JoinedAt,
	}
	for _, b := range v.Bag {
		p.Bag = append(p.Bag, BagItem{ID: b.ID, Type: b.Type})
	}
	return p, nil
}

// restore loads snap into an empty world. Players and loot of maps that are
// no longer configured are dropped.
func (w *World) restore(snap snapshot.SnapshotV1) {
	w.now = snap.Counters.Clock
	w.lastSnapshot = snap.Counters.Clock
	w.lastWritten = snap.Counters.Clock
	w.nextPlayerID = snap.Counters.NextPlayer
	w.nextLootID = snap.Counters.NextLoot

	for mapID, players := range snap.Players {
		if _, ok := w.maps[mapID]; !ok {
			w.logger.Warning(fmt.Sprintf("dropping %d players of unknown map %s", len(players), mapID))
			continue
		}
		for _, v := range players {
			p, err := playerFromV1(v)
			if err != nil {
				w.logger.Warning(fmt.Sprintf("dropping player %d: %s", v.ID, err))
				continue
			}
			p.MapID = mapID
			w.players[mapID] = append(w.players[mapID], p)
			w.nextPlayerID = max(w.nextPlayerID, p.ID)
		}
	}

	for token, mapID := range snap.TokenToMap {
		id, ok := snap.TokenToPlayer[token]
		if !ok || !w.hasPlayer(mapID, token, id) {
			w.logger.Warning(fmt.Sprintf("dropping dangling token for map %s", mapID))
			continue
		}
		w.tokenToMap[token] = mapID
		w.tokenToPlayer[token] = id
		w.playerNames[id] = snap.PlayerNames[id]
	}

	for mapID, loot := range snap.Loot {
		if _, ok := w.maps[mapID]; !ok {
			w.logger.Warning(fmt.Sprintf("dropping %d loot items of unknown map %s", len(loot), mapID))
			continue
		}
		for _, l := range loot {
			w.loot[mapID] = append(w.loot[mapID], Loot{ID: l.ID, Type: l.Type, Pos: l.Pos})
			w.nextLootID = max(w.nextLootID, l.ID)
		}
	}

	w.logger.Info(fmt.Sprintf("restored world at %s with %d players", w.now, len(w.tokenToMap)))
}

func (w *World) hasPlayer(mapID, token string, id uint64) bool {
	for _, p := range w.players[mapID] {
		if p.Token == token && p.ID == id {
			return true
		}
	}
	return false
}
