package roadmap

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/beka-birhanu/vinom-roads/game/geom"
)

var ErrDuplicateOffice = errors.New("duplicate office id")

// Building is a decorative rectangle. Players do not collide with it.
type Building struct {
	Position Point
	Width    int
	Height   int
}

// Office is a place on the map where a player can hand in loot.
type Office struct {
	ID       string
	Position Point
	Offset   Point
}

// LootType describes one kind of collectible and how it is drawn.
type LootType struct {
	Name     string
	File     string
	Type     string
	Rotation *int
	Color    *string
	Scale    float64
	Value    int
}

// Map is the static description of one playing field.
type Map struct {
	ID          string
	Name        string
	Roads       []Road
	Buildings   []Building
	Offices     []Office
	LootTypes   []LootType
	DogSpeed    float64
	BagCapacity *int // overrides the world default when set

	officeIndex map[string]int
}

// NewMap creates an empty map.
func NewMap(id, name string) *Map {
	return &Map{
		ID:          id,
		Name:        name,
		officeIndex: make(map[string]int),
	}
}

// AddRoad appends a road.
func (m *Map) AddRoad(r Road) {
	m.Roads = append(m.Roads, r)
}

// AddBuilding appends a building.
func (m *Map) AddBuilding(b Building) {
	m.Buildings = append(m.Buildings, b)
}

// AddOffice appends an office, rejecting ids already used on this map.
func (m *Map) AddOffice(o Office) error {
	if m.officeIndex == nil {
		m.officeIndex = make(map[string]int)
	}
	if _, exists := m.officeIndex[o.ID]; exists {
		return fmt.Errorf("map %s: office %q: %w", m.ID, o.ID, ErrDuplicateOffice)
	}

	m.officeIndex[o.ID] = len(m.Offices)
	m.Offices = append(m.Offices, o)
	return nil
}

// AddLootType appends an entry to the loot catalog.
func (m *Map) AddLootType(t LootType) {
	m.LootTypes = append(m.LootTypes, t)
}

// LootValue returns the score value of the loot type at index t, or 0 if t is out of range.
func (m *Map) LootValue(t int) int {
	if t < 0 || t >= len(m.LootTypes) {
		return 0
	}
	return m.LootTypes[t].Value
}

// EffectiveBagCapacity returns the map override if set, otherwise def.
func (m *Map) EffectiveBagCapacity(def int) int {
	if m.BagCapacity != nil {
		return *m.BagCapacity
	}
	return def
}

// RandomRoadPoint picks a uniformly random road and a random point on it.
// It returns false when the map has no roads.
func (m *Map) RandomRoadPoint(rng *rand.Rand) (geom.Vec2, bool) {
	if len(m.Roads) == 0 {
		return geom.Vec2{}, false
	}
	return m.Roads[rng.Intn(len(m.Roads))].RandomPoint(rng), true
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := *m
	c.Roads = slices.Clone(m.Roads)
	c.Buildings = slices.Clone(m.Buildings)
	c.Offices = slices.Clone(m.Offices)
	c.LootTypes = make([]LootType, len(m.LootTypes))
	for i, t := range m.LootTypes {
		if t.Rotation != nil {
			r := *t.Rotation
			t.Rotation = &r
		}
		if t.Color != nil {
			col := *t.Color
			t.Color = &col
		}
		c.LootTypes[i] = t
	}
	if m.BagCapacity != nil {
		bc := *m.BagCapacity
		c.BagCapacity = &bc
	}
	c.officeIndex = make(map[string]int, len(m.officeIndex))
	for k, v := range m.officeIndex {
		c.officeIndex[k] = v
	}
	return &c
}
