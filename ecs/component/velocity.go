package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

type Velocity struct {
	cp.Vector
}

var VelocityComponent = NewComponent[Velocity]()

// MaxVelocity clamps each velocity axis to the given magnitude. A zero axis
// is unclamped.
type MaxVelocity struct {
	cp.Vector
}

func (m MaxVelocity) Clamp(v cp.Vector) cp.Vector {
	return cp.Vector{X: clampAxis(v.X, m.X), Y: clampAxis(v.Y, m.Y)}
}

func clampAxis(v, limit float64) float64 {
	if limit <= 0 || math.Abs(v) <= limit {
		return v
	}
	return math.Copysign(limit, v)
}

var MaxVelocityComponent = NewComponent[MaxVelocity]()

// Mass divides applied forces. Bodies without Mass behave as mass 1.
type Mass struct {
	Value float64
}

var MassComponent = NewComponent[Mass]()

// Acceleration accumulates forces for a single tick.
type Acceleration struct {
	Forces []cp.Vector
}

func (a *Acceleration) ApplyForce(f cp.Vector) {
	a.Forces = append(a.Forces, f)
}

// Apply adds force/mass*scale for every accumulated force to vel, clamps it
// against limit (if non-nil) and clears the accumulator.
func (a *Acceleration) Apply(mass float64, vel *Velocity, limit *MaxVelocity, scale float64) {
	if mass <= 0 {
		mass = 1
	}
	for _, f := range a.Forces {
		vel.Vector = vel.Add(f.Mult(scale / mass))
	}
	if limit != nil {
		vel.Vector = limit.Clamp(vel.Vector)
	}
	a.Forces = a.Forces[:0]
}

var AccelerationComponent = NewComponent[Acceleration]()
