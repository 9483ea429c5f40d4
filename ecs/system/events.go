package system

import (
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/physics"
)

const (
	EventTrigger      = "physics.trigger"
	EventTriggerEnter = "physics.trigger_enter"
	EventTriggerExit  = "physics.trigger_exit"
)

// TriggerEvent is one overlapping (trigger, target) pair, valid for the tick
// it was produced in.
type TriggerEvent struct {
	Trigger ecs.Entity
	Target  ecs.Entity
	Layer   physics.Layer
}

type TriggerEnter struct {
	Trigger ecs.Entity
	Target  ecs.Entity
}

type TriggerExit struct {
	Trigger ecs.Entity
	Target  ecs.Entity
}
