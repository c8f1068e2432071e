package roadmap

import (
	"errors"

	"github.com/beka-birhanu/vinom-roads/game/geom"
)

// Direction is a movement or facing direction, encoded the way clients send it.
type Direction string

const (
	Stop  Direction = ""
	North Direction = "U"
	South Direction = "D"
	West  Direction = "L"
	East  Direction = "R"
)

var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection converts a wire code into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Stop, North, South, West, East:
		return d, nil
	default:
		return Stop, ErrInvalidDirection
	}
}

// String returns the wire code of d.
func (d Direction) String() string {
	return string(d)
}

// Unit returns the unit vector pointing in d, or the zero vector for Stop.
func (d Direction) Unit() geom.Vec2 {
	switch d {
	case North:
		return geom.Vec2{Y: -1}
	case South:
		return geom.Vec2{Y: 1}
	case West:
		return geom.Vec2{X: -1}
	case East:
		return geom.Vec2{X: 1}
	default:
		return geom.Vec2{}
	}
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d == North || d == South
}
