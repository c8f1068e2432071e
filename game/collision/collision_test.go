package collision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryCollect(t *testing.T) {
	t.Run("right triangle", func(t *testing.T) {
		res := TryCollect(geom.Vec2{}, geom.Vec2{Y: 10}, geom.Vec2{X: 3, Y: 5})
		assert.InDelta(t, 0.5, res.ProjRatio, 1e-12)
		assert.InDelta(t, 9.0, res.SqDistance, 1e-12)
	})

	t.Run("degenerate segment", func(t *testing.T) {
		a := geom.Vec2{X: 1, Y: 1}
		res := TryCollect(a, a, geom.Vec2{X: 4, Y: 5})
		assert.Equal(t, 0.0, res.ProjRatio)
		assert.InDelta(t, 25.0, res.SqDistance, 1e-12)
	})

	t.Run("ratio is not clamped", func(t *testing.T) {
		res := TryCollect(geom.Vec2{}, geom.Vec2{X: 2}, geom.Vec2{X: 5, Y: 1})
		assert.InDelta(t, 2.5, res.ProjRatio, 1e-12)
		assert.InDelta(t, 1.0, res.SqDistance, 1e-12)
		assert.False(t, res.IsCollected(10))

		res = TryCollect(geom.Vec2{}, geom.Vec2{X: 2}, geom.Vec2{X: -1})
		assert.Less(t, res.ProjRatio, 0.0)
		assert.False(t, res.IsCollected(10))
	})
}

func TestIsCollected(t *testing.T) {
	assert.True(t, CollectionResult{SqDistance: 0.09, ProjRatio: 0}.IsCollected(0.3))
	assert.True(t, CollectionResult{SqDistance: 0, ProjRatio: 1}.IsCollected(0))
	assert.False(t, CollectionResult{SqDistance: 0.1, ProjRatio: 0.5}.IsCollected(0.3))
	assert.False(t, CollectionResult{SqDistance: 0, ProjRatio: 1.0001}.IsCollected(1))
}

func TestFindGatherEvents(t *testing.T) {
	t.Run("ordered by time then item then gatherer", func(t *testing.T) {
		p := &Provider{}
		p.AddItem(Item{Position: geom.Vec2{X: 9}})
		p.AddItem(Item{Position: geom.Vec2{X: 3}})
		p.AddItem(Item{Position: geom.Vec2{X: 3, Y: 0.1}})
		p.AddGatherer(Gatherer{Start: geom.Vec2{}, End: geom.Vec2{X: 10}, Width: PlayerWidth})
		p.AddGatherer(Gatherer{Start: geom.Vec2{}, End: geom.Vec2{X: 10}, Width: PlayerWidth})

		events := FindGatherEvents(p)
		require.Len(t, events, 6)

		got := make([][2]int, len(events))
		for i, e := range events {
			got[i] = [2]int{e.ItemID, e.GathererID}
		}
		assert.Equal(t, [][2]int{{1, 0}, {1, 1}, {2, 0}, {2, 1}, {0, 0}, {0, 1}}, got)
		assert.InDelta(t, 0.01, events[2].SqDistance, 1e-12)
	})

	t.Run("no gatherers", func(t *testing.T) {
		p := &Provider{Items: []Item{{Position: geom.Vec2{}}}}
		assert.Empty(t, FindGatherEvents(p))
	})

	t.Run("random segments never violate the predicate", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		point := func() geom.Vec2 {
			return geom.Vec2{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10}
		}

		for round := 0; round < 50; round++ {
			p := &Provider{}
			n, m := rng.Intn(15), rng.Intn(6)
			for i := 0; i < n; i++ {
				p.AddItem(Item{Position: point(), Width: rng.Float64() * 4})
			}
			for i := 0; i < m; i++ {
				p.AddGatherer(Gatherer{Start: point(), End: point(), Width: rng.Float64() * 4})
			}

			events := FindGatherEvents(p)
			assert.LessOrEqual(t, len(events), n*m)

			for k, e := range events {
				g, it := p.Gatherer(e.GathererID), p.Item(e.ItemID)
				res := TryCollect(g.Start, g.End, it.Position)
				assert.True(t, res.IsCollected((g.Width+it.Width)/2))
				assert.Equal(t, res.ProjRatio, e.Time)
				if k > 0 {
					assert.LessOrEqual(t, events[k-1].Time, e.Time)
				}
			}
		}
	})

	t.Run("perpendicular distance matches geometry", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 100; i++ {
			a := geom.Vec2{X: rng.Float64() * 10, Y: rng.Float64() * 10}
			b := geom.Vec2{X: rng.Float64() * 10, Y: rng.Float64() * 10}
			c := geom.Vec2{X: rng.Float64() * 10, Y: rng.Float64() * 10}

			res := TryCollect(a, b, c)
			foot := a.Add(b.Sub(a).Scale(res.ProjRatio))
			assert.InDelta(t, c.Sub(foot).SqLen(), res.SqDistance, 1e-6)
			assert.False(t, math.IsNaN(res.SqDistance))
		}
	})
}
