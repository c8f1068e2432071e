package game

import (
	"math"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
)

// travel moves p for dt along its current direction.
func travel(p *Player, m *roadmap.Map, dt time.Duration) {
	distance := p.Speed.X * dt.Seconds()
	if p.Dir.Vertical() {
		distance = p.Speed.Y * dt.Seconds()
	}
	moveByDistance(p, m, distance)
}

// moveByDistance moves p by a signed distance along the axis of p.Dir,
// hopping across adjoining roads and stopping at the last border reached.
// Each hop ends on a border strictly ahead of the previous position, so the
// number of hops is bounded by the number of roads.
func moveByDistance(p *Player, m *roadmap.Map, distance float64) {
	for hop := 0; hop <= len(m.Roads); hop++ {
		if math.Abs(distance) < roadmap.Epsilon {
			return
		}

		road, ok := roadAllowing(m, p.Pos, p.Dir)
		if !ok {
			p.Speed = geom.Vec2{}
			return
		}

		if road.ClampDistance(p.Pos, distance, p.Dir) {
			if p.Dir.Vertical() {
				p.Pos.Y += distance
			} else {
				p.Pos.X += distance
			}
			return
		}

		border := road.Border(p.Dir)
		if p.Dir.Vertical() {
			distance -= border - p.Pos.Y
			p.Pos.Y = border
		} else {
			distance -= border - p.Pos.X
			p.Pos.X = border
		}
	}
}

func roadAllowing(m *roadmap.Map, pos geom.Vec2, dir roadmap.Direction) (roadmap.Road, bool) {
	for _, r := range m.Roads {
		if r.AllowsMove(pos, dir) {
			return r, true
		}
	}
	return roadmap.Road{}, false
}
