package system

import (
	"errors"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
)

// ContactSystem sets Grounded, BrushingLeft and BrushingRight on dynamic
// bodies from edge adjacency with static colliders. A marker is present iff
// some grounded (or brushing) layer the body collides with satisfied the
// test this tick.
type ContactSystem struct {
	GroundedLayers []physics.Layer
	BrushingLayers []physics.Layer
	Epsilon        float64

	warned map[[2]physics.ShapeKind]bool
}

func NewContactSystem(grounded, brushing []physics.Layer, epsilon float64) *ContactSystem {
	if epsilon <= 0 {
		epsilon = physics.DefaultContactEpsilon
	}
	return &ContactSystem{
		GroundedLayers: grounded,
		BrushingLayers: brushing,
		Epsilon:        epsilon,
		warned:         make(map[[2]physics.ShapeKind]bool),
	}
}

func (s *ContactSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	indexes := indexesByLayer(w)

	ecs.ForEach3(w, component.DynamicBodyComponent.Kind(), component.ColliderComponent.Kind(), component.CollidesWithComponent.Kind(), func(e ecs.Entity, _ *component.DynamicBody, col *component.Collider, mask *component.CollidesWith) {
		if ecs.Has(w, e, component.TriggerComponent.Kind()) {
			return
		}
		abs := col.Absolute(worldPosition(w, e))
		var vel cp.Vector
		if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			vel = v.Vector
		}

		grounded := false
		for _, layer := range s.GroundedLayers {
			if grounded || !mask.Layers.Has(layer) {
				continue
			}
			for _, idx := range indexes[layer] {
				for _, c := range idx.Hash.Query(abs) {
					ok, err := physics.Grounded(abs, c.Collider, vel, s.Epsilon)
					if err != nil {
						s.warn(e, abs, c.Collider, err)
						continue
					}
					if ok {
						grounded = true
						break
					}
				}
			}
		}

		left, right := false, false
		for _, layer := range s.BrushingLayers {
			if !mask.Layers.Has(layer) {
				continue
			}
			for _, idx := range indexes[layer] {
				for _, c := range idx.Hash.Query(abs) {
					l, r, err := physics.Brushing(abs, c.Collider, vel, s.Epsilon)
					if err != nil {
						s.warn(e, abs, c.Collider, err)
						continue
					}
					left = left || l
					right = right || r
				}
			}
		}

		setMarker(w, e, component.GroundedComponent.Kind(), grounded)
		setMarker(w, e, component.BrushingLeftComponent.Kind(), left)
		setMarker(w, e, component.BrushingRightComponent.Kind(), right)
	})
}

// warn logs an unsupported shape pair once per pair of shape kinds.
func (s *ContactSystem) warn(e ecs.Entity, body, other physics.AbsoluteCollider, err error) {
	if !errors.Is(err, physics.ErrUnsupportedShapePair) {
		log.Printf("physics: contact entity=%v: %v", e, err)
		return
	}
	if s.warned == nil {
		s.warned = make(map[[2]physics.ShapeKind]bool)
	}
	key := [2]physics.ShapeKind{body.Kind, other.Kind}
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	log.Printf("physics: contact entity=%v: %s vs %s: %v; pair skipped", e, body.Kind, other.Kind, err)
}
