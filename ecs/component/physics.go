package component

import "github.com/milk9111/spire/physics"

// Collider is the entity-relative shape used by every physics pass.
type Collider struct {
	physics.Collider
}

var ColliderComponent = NewComponent[Collider]()

// StaticBody marks an immovable collider that is indexed once into a level's
// SpatialIndex.
type StaticBody struct{}

var StaticBodyComponent = NewComponent[StaticBody]()

// DynamicBody marks a collider that moves and is re-resolved every tick.
type DynamicBody struct{}

var DynamicBodyComponent = NewComponent[DynamicBody]()

// Massive dynamic bodies push other dynamic bodies but are never pushed.
type Massive struct{}

var MassiveComponent = NewComponent[Massive]()
