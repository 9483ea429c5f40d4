package ecs

import (
	"slices"

	"github.com/milk9111/spire/ecs/component"
)

// World owns entities, component storage and the per-tick event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores value for e under the given kind, replacing any previous value.
func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// RemoveComponent deletes the component of the given kind from e.
func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

// HasComponent reports whether e carries a component of the given kind.
func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

// GetComponent returns the raw stored value of the given kind for e.
func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(kind.ID(), false).Get(e)
	return v, v != nil
}

// Query returns the live entities carrying every listed kind, ordered by slot.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.Len())
	for _, e := range smallest.Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		match := true
		for _, s := range sets {
			if s != smallest && !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, Compare)
	return out
}

// First returns the first live entity with the given kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil || kind == nil {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}
