package component

import "github.com/milk9111/spire/physics"

// LayerMember is the set of layers an entity belongs to (its category).
type LayerMember struct {
	Layers physics.LayerSet
}

var LayerMemberComponent = NewComponent[LayerMember]()

// CollidesWith is the set of layers a dynamic body resolves against (its mask).
type CollidesWith struct {
	Layers physics.LayerSet
}

var CollidesWithComponent = NewComponent[CollidesWith]()

// TriggersWith is the set of trigger layers whose triggers should report
// overlaps with this entity.
type TriggersWith struct {
	Layers physics.LayerSet
}

var TriggersWithComponent = NewComponent[TriggersWith]()
