// Package gameapi provides the request and response shapes of the game API.
package gameapi

import (
	"strconv"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/beka-birhanu/vinom-roads/game"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
)

// JoinRequest asks for a new player on a map.
type JoinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

// JoinResponse carries the credentials of a new player.
type JoinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  uint64 `json:"playerId"`
}

// ActionRequest steers the calling player. An empty move stops it.
type ActionRequest struct {
	Move *string `json:"move"`
}

// TickRequest advances the simulation by TimeDelta milliseconds.
type TickRequest struct {
	TimeDelta *int64 `json:"timeDelta"`
}

// PlayerName is an entry of the players listing.
type PlayerName struct {
	Name string `json:"name"`
}

// PlayerState is the public state of one player.
type PlayerState struct {
	Pos   [2]float64     `json:"pos"`
	Speed [2]float64     `json:"speed"`
	Dir   string         `json:"dir"`
	Bag   []BagItemState `json:"bag"`
	Score uint64         `json:"score"`
}

// BagItemState is an item in a player's bag.
type BagItemState struct {
	ID   uint64 `json:"id"`
	Type int    `json:"type"`
}

// LootState is an item lying on the map.
type LootState struct {
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

// StateResponse is the state of the caller's map, keyed by player and loot id.
type StateResponse struct {
	Players     map[string]PlayerState `json:"players"`
	LostObjects map[string]LootState   `json:"lostObjects"`
}

// RecordResponse is an entry of the retired players ranking.
type RecordResponse struct {
	Name     string  `json:"name"`
	Score    uint64  `json:"score"`
	PlayTime float64 `json:"playTime"`
}

// MapSummaryResponse is an entry of the maps listing.
type MapSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MapResponse describes a map the same way the game configuration does.
type MapResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	DogSpeed    float64            `json:"dogSpeed"`
	BagCapacity *int               `json:"bagCapacity,omitempty"`
	Roads       []RoadResponse     `json:"roads"`
	Buildings   []BuildingResponse `json:"buildings"`
	Offices     []OfficeResponse   `json:"offices"`
	LootTypes   []LootTypeResponse `json:"lootTypes"`
}

// RoadResponse is a road segment. Exactly one of X1 and Y1 is set.
type RoadResponse struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

type BuildingResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type LootTypeResponse struct {
	Name     string  `json:"name"`
	File     string  `json:"file"`
	Type     string  `json:"type"`
	Rotation *int    `json:"rotation,omitempty"`
	Color    *string `json:"color,omitempty"`
	Scale    float64 `json:"scale"`
	Value    int     `json:"value"`
}

type OfficeResponse struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

func newStateResponse(s game.State) StateResponse {
	resp := StateResponse{
		Players:     make(map[string]PlayerState, len(s.Players)),
		LostObjects: make(map[string]LootState, len(s.Loot)),
	}
	for _, p := range s.Players {
		bag := make([]BagItemState, 0, len(p.Bag))
		for _, b := range p.Bag {
			bag = append(bag, BagItemState{ID: b.ID, Type: b.Type})
		}
		resp.Players[strconv.FormatUint(p.ID, 10)] = PlayerState{
			Pos:   [2]float64{p.Pos.X, p.Pos.Y},
			Speed: [2]float64{p.Speed.X, p.Speed.Y},
			Dir:   p.Dir.String(),
			Bag:   bag,
			Score: p.Score,
		}
	}
	for _, l := range s.Loot {
		resp.LostObjects[strconv.FormatUint(l.ID, 10)] = LootState{
			Type: l.Type,
			Pos:  [2]float64{l.Pos.X, l.Pos.Y},
		}
	}
	return resp
}

func newPlayersResponse(players []game.Player) map[string]PlayerName {
	resp := make(map[string]PlayerName, len(players))
	for _, p := range players {
		resp[strconv.FormatUint(p.ID, 10)] = PlayerName{Name: p.Name}
	}
	return resp
}

func newRecordsResponse(records []domain.RetiredPlayer) []RecordResponse {
	resp := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, RecordResponse{Name: r.Name, Score: r.Score, PlayTime: r.PlaySeconds})
	}
	return resp
}

func newMapResponse(m *roadmap.Map) MapResponse {
	resp := MapResponse{
		ID:          m.ID,
		Name:        m.Name,
		DogSpeed:    m.DogSpeed,
		BagCapacity: m.BagCapacity,
		Roads:       make([]RoadResponse, 0, len(m.Roads)),
		Buildings:   make([]BuildingResponse, 0, len(m.Buildings)),
		Offices:     make([]OfficeResponse, 0, len(m.Offices)),
		LootTypes:   make([]LootTypeResponse, 0, len(m.LootTypes)),
	}

	for _, r := range m.Roads {
		start, end := r.Start(), r.End()
		road := RoadResponse{X0: start.X, Y0: start.Y}
		if r.IsHorizontal() {
			road.X1 = &end.X
		} else {
			road.Y1 = &end.Y
		}
		resp.Roads = append(resp.Roads, road)
	}
	for _, b := range m.Buildings {
		resp.Buildings = append(resp.Buildings, BuildingResponse{X: b.Position.X, Y: b.Position.Y, W: b.Width, H: b.Height})
	}
	for _, o := range m.Offices {
		resp.Offices = append(resp.Offices, OfficeResponse{
			ID:      o.ID,
			X:       o.Position.X,
			Y:       o.Position.Y,
			OffsetX: o.Offset.X,
			OffsetY: o.Offset.Y,
		})
	}
	for _, lt := range m.LootTypes {
		resp.LootTypes = append(resp.LootTypes, LootTypeResponse(lt))
	}
	return resp
}
