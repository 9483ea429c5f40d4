package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/common"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
)

// maxParentDepth bounds transform propagation through malformed Parent cycles.
const maxParentDepth = 32

// ClearResolutionSystem resets every dynamic body's Resolution and
// Collisions at the start of the tick.
type ClearResolutionSystem struct{}

func NewClearResolutionSystem() *ClearResolutionSystem {
	return &ClearResolutionSystem{}
}

func (s *ClearResolutionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, e := range w.Query(component.DynamicBodyComponent.Kind()) {
		resolutionOf(w, e).Vector = cp.Vector{}
		if ecs.Has(w, e, component.CollidesWithComponent.Kind()) {
			collisionsOf(w, e).Reset()
		}
	}
}

// TimeScaleSystem advances TimeScaleTween components.
type TimeScaleSystem struct{}

func NewTimeScaleSystem() *TimeScaleSystem {
	return &TimeScaleSystem{}
}

func (s *TimeScaleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.TimeScaleTweenComponent.Kind(), func(e ecs.Entity, tw *component.TimeScaleTween) {
		ts, err := ecs.Ensure(w, e, component.TimeScaleComponent.Kind(), func() *component.TimeScale {
			return &component.TimeScale{Scale: tw.From}
		})
		if err != nil {
			return
		}
		tw.Elapsed++
		if tw.Ticks <= 0 || tw.Elapsed >= tw.Ticks {
			ts.Scale = tw.To
			ecs.Remove(w, e, component.TimeScaleTweenComponent.Kind())
			return
		}
		ts.Scale = common.Lerp(tw.From, tw.To, float64(tw.Elapsed)/float64(tw.Ticks))
	})
}

// GravitySystem pushes the gravity force onto airborne Gravitational bodies
// until they reach MaxFallSpeed.
type GravitySystem struct {
	Gravity      cp.Vector
	MaxFallSpeed float64
}

func NewGravitySystem(gravity cp.Vector, maxFallSpeed float64) *GravitySystem {
	return &GravitySystem{Gravity: gravity, MaxFallSpeed: maxFallSpeed}
}

func (s *GravitySystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.GravitationalComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, g *component.Gravitational, vel *component.Velocity) {
		if ecs.Has(w, e, component.GroundedComponent.Kind()) || vel.Y <= s.MaxFallSpeed {
			return
		}
		acc, err := ecs.Ensure(w, e, component.AccelerationComponent.Kind(), func() *component.Acceleration {
			return &component.Acceleration{}
		})
		if err != nil {
			return
		}
		acc.ApplyForce(s.Gravity.Mult(g.Factor()))
	})
}

// VelocitySystem folds accumulated forces into velocity and integrates
// position. The time scale is applied once to the force contribution and
// once to the position step.
type VelocitySystem struct {
	DT float64
}

func NewVelocitySystem(dt float64) *VelocitySystem {
	return &VelocitySystem{DT: dt}
}

func (s *VelocitySystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	global := globalTimeScale(w)
	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, vel *component.Velocity, t *component.Transform) {
		scale := timeScaleOf(w, e, global)
		limit, _ := ecs.Get(w, e, component.MaxVelocityComponent.Kind())
		if acc, ok := ecs.Get(w, e, component.AccelerationComponent.Kind()); ok {
			acc.Apply(massOf(w, e), vel, limit, scale)
		} else if limit != nil {
			vel.Vector = limit.Clamp(vel.Vector)
		}
		t.Translate(vel.Mult(s.DT * scale))
	})
}

// TransformSystem derives GlobalTransform from Transform and Parent.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

func (s *TransformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	resolved := make(map[ecs.Entity]cp.Vector)
	for _, e := range w.Query(component.TransformComponent.Kind()) {
		s.resolve(w, e, resolved, 0)
	}
}

func (s *TransformSystem) resolve(w *ecs.World, e ecs.Entity, resolved map[ecs.Entity]cp.Vector, depth int) cp.Vector {
	if pos, ok := resolved[e]; ok {
		return pos
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return worldPosition(w, e)
	}
	pos := t.Vec()
	if p, ok := ecs.Get(w, e, component.ParentComponent.Kind()); ok && depth < maxParentDepth {
		parent := ecs.Entity(p.Entity)
		if parent != e && w.IsAlive(parent) {
			pos = pos.Add(s.resolve(w, parent, resolved, depth+1))
		}
	}
	resolved[e] = pos
	gt, err := ecs.Ensure(w, e, component.GlobalTransformComponent.Kind(), func() *component.GlobalTransform {
		return &component.GlobalTransform{}
	})
	if err == nil {
		gt.X, gt.Y = pos.X, pos.Y
	}
	return pos
}

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 1 {
			ttl.Frames--
			return
		}
		ecs.DestroyEntity(w, e)
	})
}
