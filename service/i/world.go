package i

import "time"

// Advancer moves the simulation forward by a time step.
type Advancer interface {
	Advance(dt time.Duration)
}
