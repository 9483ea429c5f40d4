package system

import (
	"cmp"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
)

// StaticIndexSystem inserts new static bodies into their level's
// SpatialIndex and removes them, by entity id, once they are destroyed or
// lose their StaticBody marker.
type StaticIndexSystem struct {
	indexed map[ecs.Entity]ecs.Entity
}

func NewStaticIndexSystem() *StaticIndexSystem {
	return &StaticIndexSystem{indexed: make(map[ecs.Entity]ecs.Entity)}
}

// Indexed reports how many static bodies are currently tracked.
func (s *StaticIndexSystem) Indexed() int {
	return len(s.indexed)
}

func (s *StaticIndexSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if s.indexed == nil {
		s.indexed = make(map[ecs.Entity]ecs.Entity)
	}

	for e, owner := range s.indexed {
		if w.IsAlive(e) && w.IsAlive(owner) && ecs.Has(w, e, component.StaticBodyComponent.Kind()) {
			continue
		}
		if idx, ok := ecs.Get(w, owner, component.SpatialIndexComponent.Kind()); ok && idx.Hash != nil {
			idx.Hash.Remove(uint64(e))
		}
		delete(s.indexed, e)
	}

	ecs.ForEach2(w, component.StaticBodyComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, _ *component.StaticBody, col *component.Collider) {
		if _, done := s.indexed[e]; done || ecs.Has(w, e, component.TriggerComponent.Kind()) {
			return
		}
		owner, idx, ok := indexFor(w, e)
		if !ok {
			return
		}
		idx.Hash.Insert(physics.SpatialEntry[uint64, struct{}]{
			Key:      uint64(e),
			Collider: col.Absolute(worldPosition(w, e)),
		})
		s.indexed[e] = owner
	})
}

// indexFor picks the parent's index when the parent owns one, otherwise the
// first index whose layer the body is a member of.
func indexFor(w *ecs.World, e ecs.Entity) (ecs.Entity, *component.SpatialIndex, bool) {
	if p, ok := ecs.Get(w, e, component.ParentComponent.Kind()); ok {
		owner := ecs.Entity(p.Entity)
		if idx, ok := ecs.Get(w, owner, component.SpatialIndexComponent.Kind()); ok && idx.Hash != nil {
			return owner, idx, true
		}
	}
	member, ok := ecs.Get(w, e, component.LayerMemberComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	for _, owner := range w.Query(component.SpatialIndexComponent.Kind()) {
		idx, ok := ecs.Get(w, owner, component.SpatialIndexComponent.Kind())
		if ok && idx.Hash != nil && member.Layers.Has(idx.Layer) {
			return owner, idx, true
		}
	}
	return 0, nil, false
}

// StaticCollisionSystem resolves dynamic bodies that collide with Layer
// against that layer's static indexes.
type StaticCollisionSystem struct {
	Layer physics.Layer
}

func NewStaticCollisionSystem(layer physics.Layer) *StaticCollisionSystem {
	return &StaticCollisionSystem{Layer: layer}
}

func (s *StaticCollisionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	indexes := indexesByLayer(w)[s.Layer]
	if len(indexes) == 0 {
		return
	}

	ecs.ForEach3(w, component.DynamicBodyComponent.Kind(), component.ColliderComponent.Kind(), component.CollidesWithComponent.Kind(), func(e ecs.Entity, _ *component.DynamicBody, col *component.Collider, mask *component.CollidesWith) {
		if !mask.Layers.Has(s.Layer) || ecs.Has(w, e, component.TriggerComponent.Kind()) {
			return
		}
		abs := col.Absolute(worldPosition(w, e))

		var candidates []physics.SpatialEntry[uint64, struct{}]
		for _, idx := range indexes {
			candidates = append(candidates, idx.Hash.Query(abs)...)
		}
		if len(candidates) == 0 {
			return
		}
		// Deepest overlaps first: each correction moves the body, which
		// changes every later overlap test.
		slices.SortStableFunc(candidates, func(a, b physics.SpatialEntry[uint64, struct{}]) int {
			return cmp.Compare(abs.Resolution(b.Collider).LengthSq(), abs.Resolution(a.Collider).LengthSq())
		})

		res := resolutionOf(w, e)
		collisions := collisionsOf(w, e)
		vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
		for _, c := range candidates {
			if !abs.Collides(c.Collider) {
				continue
			}
			collisions.Add(s.Layer, c.Key)

			v := abs.Resolution(c.Collider)
			if v == (cp.Vector{}) {
				continue
			}
			res.Vector = res.Add(v)
			moveBody(w, e, v)
			abs = col.Absolute(worldPosition(w, e))
			if v.Y != 0 && vel != nil {
				vel.Y = 0
			}
		}
	})
}

type dynamicEntry = physics.SpatialEntry[uint64, bool]

// DynamicCollisionSystem resolves movers (dynamic bodies colliding with
// Layer) against dynamic members of Layer. The member hash is rebuilt every
// tick. A mover that is itself a member has its entry updated after it
// moves, so later movers resolve against its corrected position. Massive
// movers record contacts but are never moved.
type DynamicCollisionSystem struct {
	Layer    physics.Layer
	CellSize float64
}

func NewDynamicCollisionSystem(layer physics.Layer, cellSize float64) *DynamicCollisionSystem {
	return &DynamicCollisionSystem{Layer: layer, CellSize: cellSize}
}

func (s *DynamicCollisionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var others []dynamicEntry
	ecs.ForEach3(w, component.DynamicBodyComponent.Kind(), component.ColliderComponent.Kind(), component.LayerMemberComponent.Kind(), func(e ecs.Entity, _ *component.DynamicBody, col *component.Collider, member *component.LayerMember) {
		if !member.Layers.Has(s.Layer) || ecs.Has(w, e, component.TriggerComponent.Kind()) {
			return
		}
		others = append(others, dynamicEntry{
			Key:      uint64(e),
			Collider: col.Absolute(worldPosition(w, e)),
			Data:     ecs.Has(w, e, component.MassiveComponent.Kind()),
		})
	})
	if len(others) == 0 {
		return
	}
	// non-massive bodies first
	slices.SortStableFunc(others, func(a, b dynamicEntry) int {
		switch {
		case a.Data == b.Data:
			return 0
		case a.Data:
			return 1
		default:
			return -1
		}
	})
	hash := physics.NewSpatialHashWith(s.CellSize, others)

	ecs.ForEach3(w, component.DynamicBodyComponent.Kind(), component.ColliderComponent.Kind(), component.CollidesWithComponent.Kind(), func(e ecs.Entity, _ *component.DynamicBody, col *component.Collider, mask *component.CollidesWith) {
		if !mask.Layers.Has(s.Layer) || ecs.Has(w, e, component.TriggerComponent.Kind()) {
			return
		}
		massive := ecs.Has(w, e, component.MassiveComponent.Kind())
		abs := col.Absolute(worldPosition(w, e))
		res := resolutionOf(w, e)
		collisions := collisionsOf(w, e)

		moved := false
		for _, c := range hash.Query(abs) {
			if c.Key == uint64(e) || !abs.Collides(c.Collider) {
				continue
			}
			collisions.Add(s.Layer, c.Key)
			if massive {
				continue
			}
			v := abs.Resolution(c.Collider)
			if v == (cp.Vector{}) {
				continue
			}
			res.Vector = res.Add(v)
			moveBody(w, e, v)
			abs = col.Absolute(worldPosition(w, e))
			moved = true
		}
		if moved && hash.Contains(uint64(e)) {
			hash.Update(dynamicEntry{Key: uint64(e), Collider: abs, Data: massive})
		}
	})
}
