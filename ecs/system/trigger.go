package system

import (
	"slices"

	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
)

type triggerPair struct {
	trigger ecs.Entity
	target  ecs.Entity
}

// TriggerSystem finds overlaps between triggers and their targets for each
// trigger layer, fills the targets' Triggers lists and emits one
// TriggerEvent per unique pair.
type TriggerSystem struct {
	Layers   []physics.Layer
	CellSize float64
}

func NewTriggerSystem(layers []physics.Layer, cellSize float64) *TriggerSystem {
	return &TriggerSystem{Layers: layers, CellSize: cellSize}
}

func (s *TriggerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.TriggersComponent.Kind(), func(_ ecs.Entity, t *component.Triggers) {
		t.Reset()
	})

	var pairs []triggerPair
	seen := make(map[triggerPair]struct{})
	layerOf := make(map[triggerPair]physics.Layer)

	for _, layer := range s.Layers {
		hash := s.targets(w, layer)
		if hash.Len() == 0 {
			continue
		}
		ecs.ForEach3(w, component.TriggerComponent.Kind(), component.ColliderComponent.Kind(), component.LayerMemberComponent.Kind(), func(e ecs.Entity, _ *component.Trigger, col *component.Collider, member *component.LayerMember) {
			if !member.Layers.Has(layer) {
				return
			}
			abs := col.Absolute(worldPosition(w, e))
			for _, c := range hash.Query(abs) {
				target := ecs.Entity(c.Key)
				if target == e || !abs.Collides(c.Collider) {
					continue
				}
				if c.Data {
					s.recordOn(w, target, layer, e)
				}
				pair := triggerPair{trigger: e, target: target}
				if _, dup := seen[pair]; dup {
					continue
				}
				seen[pair] = struct{}{}
				layerOf[pair] = layer
				pairs = append(pairs, pair)
			}
		})
	}

	for _, p := range pairs {
		w.Events().Push(ecs.Event{
			Type: EventTrigger,
			Data: TriggerEvent{Trigger: p.trigger, Target: p.target, Layer: layerOf[p]},
		})
	}
}

// targets indexes every collider that triggers of layer report against:
// entities with TriggersWith containing layer (Data true) and the other
// triggers of the same layer.
func (s *TriggerSystem) targets(w *ecs.World, layer physics.Layer) *physics.SpatialHash[uint64, bool] {
	hash := physics.NewSpatialHash[uint64, bool](s.CellSize)
	ecs.ForEach(w, component.ColliderComponent.Kind(), func(e ecs.Entity, col *component.Collider) {
		wants := false
		if tw, ok := ecs.Get(w, e, component.TriggersWithComponent.Kind()); ok {
			wants = tw.Layers.Has(layer)
		}
		isTrigger := false
		if ecs.Has(w, e, component.TriggerComponent.Kind()) {
			if member, ok := ecs.Get(w, e, component.LayerMemberComponent.Kind()); ok {
				isTrigger = member.Layers.Has(layer)
			}
		}
		if !wants && !isTrigger {
			return
		}
		hash.Insert(physics.SpatialEntry[uint64, bool]{
			Key:      uint64(e),
			Collider: col.Absolute(worldPosition(w, e)),
			Data:     wants,
		})
	})
	return hash
}

func (s *TriggerSystem) recordOn(w *ecs.World, target ecs.Entity, layer physics.Layer, trigger ecs.Entity) {
	t, err := ecs.Ensure(w, target, component.TriggersComponent.Kind(), component.NewTriggers)
	if err != nil {
		return
	}
	if !slices.Contains(t.Of(layer), uint64(trigger)) {
		t.Add(layer, uint64(trigger))
	}
}

// TriggerStateSystem turns this tick's TriggerEvents into TriggerEnter and
// TriggerExit transitions. The active set lives in the system, not in the
// world, and is dropped along with triggers that stop reporting.
type TriggerStateSystem struct {
	active map[ecs.Entity][]ecs.Entity
}

func NewTriggerStateSystem() *TriggerStateSystem {
	return &TriggerStateSystem{active: make(map[ecs.Entity][]ecs.Entity)}
}

// Active returns the targets currently inside trigger.
func (s *TriggerStateSystem) Active(trigger ecs.Entity) []ecs.Entity {
	return slices.Clone(s.active[trigger])
}

func (s *TriggerStateSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if s.active == nil {
		s.active = make(map[ecs.Entity][]ecs.Entity)
	}

	current := make(map[ecs.Entity][]ecs.Entity)
	for _, ev := range ecs.EventsOf[TriggerEvent](w.Events()) {
		if slices.Contains(current[ev.Trigger], ev.Target) {
			continue
		}
		current[ev.Trigger] = append(current[ev.Trigger], ev.Target)
		if !slices.Contains(s.active[ev.Trigger], ev.Target) {
			w.Events().Push(ecs.Event{Type: EventTriggerEnter, Data: TriggerEnter{Trigger: ev.Trigger, Target: ev.Target}})
		}
	}

	triggers := make([]ecs.Entity, 0, len(s.active))
	for trigger := range s.active {
		triggers = append(triggers, trigger)
	}
	slices.SortFunc(triggers, ecs.Compare)
	for _, trigger := range triggers {
		for _, target := range s.active[trigger] {
			if !slices.Contains(current[trigger], target) {
				w.Events().Push(ecs.Event{Type: EventTriggerExit, Data: TriggerExit{Trigger: trigger, Target: target}})
			}
		}
	}

	s.active = current
}
