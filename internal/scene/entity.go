// Package scene holds the grabbable entities and advances them once per
// frame from the tracked hand position and grab state.
package scene

import (
	"fmt"

	"github.com/ayusman/skyhands/internal/geom"
)

// DefaultPadding is the margin beyond the screen edge at which drifting
// entities wrap around, so the wrap happens fully off-screen.
const DefaultPadding = 100.0

// Kind tags an entity with the shape renderers draw for it. The update rule
// does not depend on it.
type Kind int

const (
	Sun Kind = iota
	Cloud1
	Cloud2
)

func (k Kind) String() string {
	switch k {
	case Sun:
		return "sun"
	case Cloud1:
		return "cloud1"
	case Cloud2:
		return "cloud2"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{Sun, Cloud1, Cloud2} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown entity kind %q", text)
}

// Regime is how an entity moved during its last update.
type Regime int

const (
	Drifting Regime = iota
	Held
)

func (r Regime) String() string {
	if r == Held {
		return "held"
	}
	return "drifting"
}

// MarshalText encodes the regime by name.
func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a regime name.
func (r *Regime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "held":
		*r = Held
	case "drifting":
		*r = Drifting
	default:
		return fmt.Errorf("unknown regime %q", text)
	}
	return nil
}

// Entity is a shape that drifts horizontally and can be dragged by a
// grabbing hand. DriftSpeed (px per frame, signed) and Radius are fixed at
// construction; Position is owned by the entity and changes only in Update.
type Entity struct {
	kind       Kind
	position   geom.Point
	driftSpeed float64
	radius     float64
	regime     Regime
}

// NewEntity returns an entity of the given kind at pos.
func NewEntity(kind Kind, pos geom.Point, driftSpeed, radius float64) *Entity {
	return &Entity{
		kind:       kind,
		position:   pos,
		driftSpeed: driftSpeed,
		radius:     radius,
	}
}

func (e *Entity) Kind() Kind           { return e.kind }
func (e *Entity) Position() geom.Point { return e.position }
func (e *Entity) DriftSpeed() float64  { return e.driftSpeed }
func (e *Entity) Radius() float64      { return e.radius }

// Regime reports how the entity moved in its last update.
func (e *Entity) Regime() Regime { return e.regime }

// Contains reports whether p lies strictly inside the pickup radius.
func (e *Entity) Contains(p geom.Point) bool {
	return e.position.Dist(p) < e.radius
}

// Update advances the entity by one frame.
//
// If grabbing and the current hand position is known and strictly within the
// radius of the entity's current position, the entity is held and moves by
// the hand's displacement since the previous frame (zero when the previous
// position is unknown). Otherwise it drifts by DriftSpeed along x and wraps
// once it is more than padding beyond either screen edge.
func (e *Entity) Update(prev, cur geom.HandPos, grabbing bool, screen geom.Size, padding float64) {
	if grabbing && cur.Known && e.Contains(cur.Point) {
		if !prev.Known {
			prev = cur
		}
		e.position = e.position.Add(cur.Sub(prev.Point))
		e.regime = Held
		return
	}

	e.position.X += e.driftSpeed
	if e.position.X > screen.Width+padding {
		e.position.X = -padding
	}
	if e.position.X < -padding {
		e.position.X = screen.Width + padding
	}
	e.regime = Drifting
}

// State is a read-only copy of an entity for renderers and the debug server.
type State struct {
	Kind     Kind       `json:"kind"`
	Position geom.Point `json:"position"`
	Radius   float64    `json:"radius"`
	Speed    float64    `json:"speed"`
	Regime   Regime     `json:"regime"`
}

// State returns a copy of the entity's current state.
func (e *Entity) State() State {
	return State{
		Kind:     e.kind,
		Position: e.position,
		Radius:   e.radius,
		Speed:    e.driftSpeed,
		Regime:   e.regime,
	}
}
