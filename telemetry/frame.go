package telemetry

import (
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/ecs/system"
)

// Frame is the per-tick message sent to every subscriber.
type Frame struct {
	Tick   uint64      `json:"tick"`
	Bodies []BodyState `json:"bodies"`
	Events []Event     `json:"events,omitempty"`
}

type BodyState struct {
	Entity        uint64  `json:"entity"`
	Player        bool    `json:"player,omitempty"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	VX            float64 `json:"vx"`
	VY            float64 `json:"vy"`
	Grounded      bool    `json:"grounded,omitempty"`
	BrushingLeft  bool    `json:"brushingLeft,omitempty"`
	BrushingRight bool    `json:"brushingRight,omitempty"`
}

type Event struct {
	Type    string `json:"type"`
	Trigger uint64 `json:"trigger"`
	Target  uint64 `json:"target"`
}

// Snapshot captures the dynamic bodies and this tick's trigger transitions.
// It must run after the pipeline update and before the next one clears events.
func Snapshot(w *ecs.World, tick uint64) Frame {
	f := Frame{Tick: tick, Bodies: []BodyState{}}

	ecs.ForEach2(w, component.DynamicBodyComponent.Kind(), component.GlobalTransformComponent.Kind(), func(e ecs.Entity, _ *component.DynamicBody, t *component.GlobalTransform) {
		b := BodyState{
			Entity:        uint64(e),
			Player:        ecs.Has(w, e, component.PlayerTagComponent.Kind()),
			X:             t.X,
			Y:             t.Y,
			Grounded:      ecs.Has(w, e, component.GroundedComponent.Kind()),
			BrushingLeft:  ecs.Has(w, e, component.BrushingLeftComponent.Kind()),
			BrushingRight: ecs.Has(w, e, component.BrushingRightComponent.Kind()),
		}
		if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			b.VX, b.VY = v.X, v.Y
		}
		f.Bodies = append(f.Bodies, b)
	})

	for _, evt := range w.Events().Items() {
		switch ev := evt.Data.(type) {
		case system.TriggerEnter:
			f.Events = append(f.Events, Event{Type: evt.Type, Trigger: uint64(ev.Trigger), Target: uint64(ev.Target)})
		case system.TriggerExit:
			f.Events = append(f.Events, Event{Type: evt.Type, Trigger: uint64(ev.Trigger), Target: uint64(ev.Target)})
		}
	}
	return f
}
