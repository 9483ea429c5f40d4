package component

import (
	"slices"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestAccelerationApply(t *testing.T) {
	tests := []struct {
		name   string
		forces []cp.Vector
		mass   float64
		start  cp.Vector
		limit  *MaxVelocity
		scale  float64
		want   cp.Vector
	}{
		{"sums_over_mass", []cp.Vector{{X: 4}, {Y: -2}}, 2, cp.Vector{}, nil, 1, cp.Vector{X: 2, Y: -1}},
		{"zero_mass_is_unit", []cp.Vector{{X: 3}}, 0, cp.Vector{X: 1}, nil, 1, cp.Vector{X: 4}},
		{"clamps_preserving_sign", []cp.Vector{{X: -50, Y: 50}}, 1, cp.Vector{}, &MaxVelocity{cp.Vector{X: 10, Y: 20}}, 1, cp.Vector{X: -10, Y: 20}},
		{"unclamped_axis", []cp.Vector{{Y: -500}}, 1, cp.Vector{}, &MaxVelocity{cp.Vector{X: 10}}, 1, cp.Vector{Y: -500}},
		{"scaled_once", []cp.Vector{{X: 8}}, 1, cp.Vector{}, nil, 0.5, cp.Vector{X: 4}},
		{"clamps_existing_velocity", nil, 1, cp.Vector{X: 30}, &MaxVelocity{cp.Vector{X: 10, Y: 10}}, 1, cp.Vector{X: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc := Acceleration{Forces: append([]cp.Vector(nil), tc.forces...)}
			vel := Velocity{tc.start}
			acc.Apply(tc.mass, &vel, tc.limit, tc.scale)
			if vel.Vector != tc.want {
				t.Fatalf("velocity=%v want %v", vel.Vector, tc.want)
			}
			if len(acc.Forces) != 0 {
				t.Fatalf("forces not cleared: %v", acc.Forces)
			}
		})
	}
}

func TestLayerEntities(t *testing.T) {
	c := NewCollisions()
	c.Add(2, 7)
	c.Add(0, 3)
	c.Add(2, 9)

	if got := c.All(); !slices.Equal(got, []uint64{3, 7, 9}) {
		t.Fatalf("All()=%v", got)
	}
	if !c.Contains(9) || c.Contains(4) {
		t.Fatalf("Contains mismatch")
	}
	c.Reset()
	if len(c.Of(2)) != 0 || len(c.All()) != 0 {
		t.Fatalf("expected empty after Reset, got %v", c.All())
	}
}

func TestLevelBoundsContains(t *testing.T) {
	b := LevelBounds{Width: 100, Height: 50}
	if !b.Contains(0, 0) || !b.Contains(100, 50) || b.Contains(-1, 10) || b.Contains(10, 51) {
		t.Fatalf("unexpected bounds membership")
	}
}
