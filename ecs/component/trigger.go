package component

// Trigger marks an overlap-only collider. It belongs to the trigger layers
// named by its LayerMember and never pushes anything.
type Trigger struct{}

var TriggerComponent = NewComponent[Trigger]()

// Triggers lists, per layer, the triggers currently overlapping an entity.
type Triggers struct {
	LayerEntities
}

func NewTriggers() *Triggers {
	return &Triggers{LayerEntities: LayerEntities{}}
}

var TriggersComponent = NewComponent[Triggers]()
