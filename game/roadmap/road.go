/*
Package roadmap describes the static geometry of a game map.

A map is a set of axis aligned roads that players drive along, decorative
buildings, offices where loot is handed in and the catalog of loot types that
can spawn on it. Maps are immutable once loaded; the simulation only reads them.

North is the negative y direction, matching the client coordinate system.
*/
package roadmap

import (
	"math"
	"math/rand"

	"github.com/beka-birhanu/vinom-roads/game/geom"
)

const (
	// HalfWidth is how far a road's drivable area extends past its centerline on every side.
	HalfWidth = 0.4

	// Epsilon is the tolerance used when comparing a position against a border.
	Epsilon = 1e-8
)

// Point is an integer map coordinate as it appears in map configuration.
type Point struct {
	X int
	Y int
}

// Vec returns p as a float vector.
func (p Point) Vec() geom.Vec2 {
	return geom.Vec2{X: float64(p.X), Y: float64(p.Y)}
}

// Rect is an axis aligned rectangle. Top holds the smallest y.
type Rect struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p geom.Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Road is an axis aligned road segment.
type Road struct {
	start   Point
	end     Point
	borders Rect
}

// NewHorizontalRoad creates a road running from start to (endX, start.Y).
func NewHorizontalRoad(start Point, endX int) Road {
	return newRoad(start, Point{X: endX, Y: start.Y})
}

// NewVerticalRoad creates a road running from start to (start.X, endY).
func NewVerticalRoad(start Point, endY int) Road {
	return newRoad(start, Point{X: start.X, Y: endY})
}

func newRoad(start, end Point) Road {
	return Road{
		start: start,
		end:   end,
		borders: Rect{
			Left:   float64(min(start.X, end.X)) - HalfWidth,
			Right:  float64(max(start.X, end.X)) + HalfWidth,
			Top:    float64(min(start.Y, end.Y)) - HalfWidth,
			Bottom: float64(max(start.Y, end.Y)) + HalfWidth,
		},
	}
}

// Start returns the first end point of the road.
func (r Road) Start() Point { return r.start }

// End returns the second end point of the road.
func (r Road) End() Point { return r.end }

// IsHorizontal reports whether the road runs along the x axis.
func (r Road) IsHorizontal() bool { return r.start.Y == r.end.Y }

// Borders returns the drivable rectangle of the road.
func (r Road) Borders() Rect { return r.borders }

// Border returns the coordinate of the border a player moving in dir runs into.
// For Stop it returns NaN.
func (r Road) Border(dir Direction) float64 {
	switch dir {
	case North:
		return r.borders.Top
	case South:
		return r.borders.Bottom
	case West:
		return r.borders.Left
	case East:
		return r.borders.Right
	default:
		return math.NaN()
	}
}

// AllowsMove reports whether a player at pos is on the road and not already
// flush against the border it would hit moving in dir.
func (r Road) AllowsMove(pos geom.Vec2, dir Direction) bool {
	if !r.borders.Contains(pos) {
		return false
	}

	switch dir {
	case North, South:
		return math.Abs(pos.Y-r.Border(dir)) > Epsilon
	case West, East:
		return math.Abs(pos.X-r.Border(dir)) > Epsilon
	default:
		return false
	}
}

// ClampDistance reports whether moving distance units from pos along dir's axis
// stays strictly inside the road. distance is signed along the axis.
func (r Road) ClampDistance(pos geom.Vec2, distance float64, dir Direction) bool {
	switch dir {
	case North, South:
		y := pos.Y + distance
		return y > r.borders.Top && y < r.borders.Bottom
	case West, East:
		x := pos.X + distance
		return x > r.borders.Left && x < r.borders.Right
	default:
		return true
	}
}

// RandomPoint picks x and y independently and uniformly from the road's nominal extent.
func (r Road) RandomPoint(rng *rand.Rand) geom.Vec2 {
	minX, maxX := float64(min(r.start.X, r.end.X)), float64(max(r.start.X, r.end.X))
	minY, maxY := float64(min(r.start.Y, r.end.Y)), float64(max(r.start.Y, r.end.Y))

	return geom.Vec2{
		X: minX + rng.Float64()*(maxX-minX),
		Y: minY + rng.Float64()*(maxY-minY),
	}
}
