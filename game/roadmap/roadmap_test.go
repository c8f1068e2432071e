package roadmap

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoadBorders(t *testing.T) {
	t.Run("horizontal road extends by half width", func(t *testing.T) {
		r := NewHorizontalRoad(Point{X: 10, Y: 3}, 0)
		assertRect(t, Rect{Left: -0.4, Right: 10.4, Top: 2.6, Bottom: 3.4}, r.Borders())
		assert.True(t, r.IsHorizontal())
	})

	t.Run("vertical road extends by half width", func(t *testing.T) {
		r := NewVerticalRoad(Point{X: 2, Y: 0}, 5)
		assertRect(t, Rect{Left: 1.6, Right: 2.4, Top: -0.4, Bottom: 5.4}, r.Borders())
		assert.False(t, r.IsHorizontal())
	})
}

func assertRect(t *testing.T, want, got Rect) {
	t.Helper()
	assert.InDelta(t, want.Left, got.Left, 1e-12)
	assert.InDelta(t, want.Right, got.Right, 1e-12)
	assert.InDelta(t, want.Top, got.Top, 1e-12)
	assert.InDelta(t, want.Bottom, got.Bottom, 1e-12)
}

func TestRoadAllowsMove(t *testing.T) {
	r := NewHorizontalRoad(Point{X: 0, Y: 0}, 10)

	tests := []struct {
		name string
		pos  geom.Vec2
		dir  Direction
		want bool
	}{
		{"inside moving east", geom.Vec2{X: 5}, East, true},
		{"outside", geom.Vec2{X: 11}, West, false},
		{"flush with east border moving east", geom.Vec2{X: 10.4}, East, false},
		{"flush with east border moving west", geom.Vec2{X: 10.4}, West, true},
		{"flush with top border moving north", geom.Vec2{X: 3, Y: -0.4}, North, false},
		{"flush with top border moving south", geom.Vec2{X: 3, Y: -0.4}, South, true},
		{"stop never moves", geom.Vec2{X: 5}, Stop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.AllowsMove(tt.pos, tt.dir))
		})
	}
}

func TestRoadClampDistance(t *testing.T) {
	r := NewHorizontalRoad(Point{X: 0, Y: 0}, 10)

	assert.True(t, r.ClampDistance(geom.Vec2{X: 5}, 5, East))
	assert.False(t, r.ClampDistance(geom.Vec2{X: 5}, 5.4, East))
	assert.False(t, r.ClampDistance(geom.Vec2{X: 5}, 10, East))
	assert.True(t, r.ClampDistance(geom.Vec2{X: 5}, -5.3, West))
	assert.False(t, r.ClampDistance(geom.Vec2{X: 5}, -6, West))
	assert.True(t, r.ClampDistance(geom.Vec2{X: 5}, -0.39, North))
	assert.False(t, r.ClampDistance(geom.Vec2{X: 5}, 0.5, South))
}

func TestRoadRandomPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := NewHorizontalRoad(Point{X: 4, Y: 2}, -3)
	v := NewVerticalRoad(Point{X: 1, Y: 8}, 6)

	for i := 0; i < 200; i++ {
		p := h.RandomPoint(rng)
		assert.GreaterOrEqual(t, p.X, -3.0)
		assert.LessOrEqual(t, p.X, 4.0)
		assert.Equal(t, 2.0, p.Y)

		p = v.RandomPoint(rng)
		assert.Equal(t, 1.0, p.X)
		assert.GreaterOrEqual(t, p.Y, 6.0)
		assert.LessOrEqual(t, p.Y, 8.0)
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"", "U", "D", "L", "R"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}

	_, err := ParseDirection("X")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	assert.Equal(t, geom.Vec2{Y: -1}, North.Unit())
	assert.Equal(t, geom.Vec2{X: 1}, East.Unit())
	assert.True(t, South.Vertical())
	assert.False(t, West.Vertical())
}

func TestMap(t *testing.T) {
	t.Run("duplicate office is rejected", func(t *testing.T) {
		m := NewMap("m1", "Town")
		require.NoError(t, m.AddOffice(Office{ID: "o1"}))
		err := m.AddOffice(Office{ID: "o1", Position: Point{X: 1}})
		assert.True(t, errors.Is(err, ErrDuplicateOffice))
		assert.Len(t, m.Offices, 1)
	})

	t.Run("bag capacity override", func(t *testing.T) {
		m := NewMap("m1", "Town")
		assert.Equal(t, 3, m.EffectiveBagCapacity(3))
		c := 1
		m.BagCapacity = &c
		assert.Equal(t, 1, m.EffectiveBagCapacity(3))
	})

	t.Run("loot value out of range is zero", func(t *testing.T) {
		m := NewMap("m1", "Town")
		m.AddLootType(LootType{Name: "key", Value: 10})
		assert.Equal(t, 10, m.LootValue(0))
		assert.Equal(t, 0, m.LootValue(1))
		assert.Equal(t, 0, m.LootValue(-1))
	})

	t.Run("random road point needs a road", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		m := NewMap("m1", "Town")
		_, ok := m.RandomRoadPoint(rng)
		assert.False(t, ok)

		m.AddRoad(NewHorizontalRoad(Point{}, 10))
		p, ok := m.RandomRoadPoint(rng)
		assert.True(t, ok)
		assert.Equal(t, 0.0, p.Y)
	})

	t.Run("clone does not alias", func(t *testing.T) {
		m := NewMap("m1", "Town")
		col := "#fff"
		m.AddLootType(LootType{Name: "key", Color: &col})
		m.AddRoad(NewHorizontalRoad(Point{}, 10))

		c := m.Clone()
		*c.LootTypes[0].Color = "#000"
		c.Roads[0] = NewVerticalRoad(Point{}, 1)

		assert.Equal(t, "#fff", *m.LootTypes[0].Color)
		assert.True(t, m.Roads[0].IsHorizontal())
	})
}
