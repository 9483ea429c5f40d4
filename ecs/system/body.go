package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
)

// worldPosition prefers GlobalTransform so corrections made earlier in the
// tick are visible; bodies without one fall back to their local Transform.
func worldPosition(w *ecs.World, e ecs.Entity) cp.Vector {
	if gt, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind()); ok {
		return gt.Vec()
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return t.Vec()
	}
	return cp.Vector{}
}

func worldCollider(w *ecs.World, e ecs.Entity) (physics.AbsoluteCollider, bool) {
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		return physics.AbsoluteCollider{}, false
	}
	return col.Absolute(worldPosition(w, e)), true
}

// moveBody applies a positional correction to both transforms.
func moveBody(w *ecs.World, e ecs.Entity, v cp.Vector) {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Translate(v)
	}
	if gt, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind()); ok {
		gt.Translate(v)
	}
}

func massOf(w *ecs.World, e ecs.Entity) float64 {
	if m, ok := ecs.Get(w, e, component.MassComponent.Kind()); ok && m.Value > 0 {
		return m.Value
	}
	return 1
}

// globalTimeScale reads the TimeScale of the ClockTag entity, defaulting to 1.
func globalTimeScale(w *ecs.World) float64 {
	clock, ok := w.First(component.ClockTagComponent.Kind())
	if !ok {
		return 1
	}
	if ts, ok := ecs.Get(w, clock, component.TimeScaleComponent.Kind()); ok {
		return ts.Scale
	}
	return 1
}

func timeScaleOf(w *ecs.World, e ecs.Entity, global float64) float64 {
	if ecs.Has(w, e, component.ClockTagComponent.Kind()) {
		return global
	}
	if ts, ok := ecs.Get(w, e, component.TimeScaleComponent.Kind()); ok {
		return ts.Scale
	}
	return global
}

// indexesByLayer groups every live SpatialIndex by its layer.
func indexesByLayer(w *ecs.World) map[physics.Layer][]*component.SpatialIndex {
	out := make(map[physics.Layer][]*component.SpatialIndex)
	ecs.ForEach(w, component.SpatialIndexComponent.Kind(), func(_ ecs.Entity, idx *component.SpatialIndex) {
		if idx.Hash == nil {
			return
		}
		out[idx.Layer] = append(out[idx.Layer], idx)
	})
	return out
}

func setMarker[T any](w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], on bool) {
	if !on {
		ecs.Remove(w, e, kind)
		return
	}
	if !ecs.Has(w, e, kind) {
		_ = ecs.Add(w, e, kind, new(T))
	}
}

func resolutionOf(w *ecs.World, e ecs.Entity) *component.Resolution {
	res, err := ecs.Ensure(w, e, component.ResolutionComponent.Kind(), func() *component.Resolution {
		return &component.Resolution{}
	})
	if err != nil {
		return &component.Resolution{}
	}
	return res
}

func collisionsOf(w *ecs.World, e ecs.Entity) *component.Collisions {
	col, err := ecs.Ensure(w, e, component.CollisionsComponent.Kind(), component.NewCollisions)
	if err != nil {
		return component.NewCollisions()
	}
	return col
}

// LineOfSight ray-casts from..to against every static index of layer.
func LineOfSight(w *ecs.World, layer physics.Layer, from, to cp.Vector, samples int) bool {
	for _, idx := range indexesByLayer(w)[layer] {
		if !idx.Hash.RayCast(from, to, samples) {
			return false
		}
	}
	return true
}
