package component

import "github.com/milk9111/spire/physics"

// StaticHash indexes static bodies by entity id.
type StaticHash = physics.SpatialHash[uint64, struct{}]

// SpatialIndex is the static broad phase owned by a level entity. Static
// bodies parented to the owner, or members of Layer when unparented, are
// inserted into it.
type SpatialIndex struct {
	Layer physics.Layer
	Hash  *StaticHash
}

func NewSpatialIndex(layer physics.Layer, cellSize float64) *SpatialIndex {
	return &SpatialIndex{Layer: layer, Hash: physics.NewSpatialHash[uint64, struct{}](cellSize)}
}

var SpatialIndexComponent = NewComponent[SpatialIndex]()
