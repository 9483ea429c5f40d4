package component

import (
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/physics"
)

// LayerEntities is a per-layer list of entity ids rebuilt every tick.
type LayerEntities map[physics.Layer][]uint64

func (l LayerEntities) Add(layer physics.Layer, e uint64) {
	l[layer] = append(l[layer], e)
}

func (l LayerEntities) Of(layer physics.Layer) []uint64 {
	return l[layer]
}

// All returns every recorded entity in layer order.
func (l LayerEntities) All() []uint64 {
	layers := make([]physics.Layer, 0, len(l))
	for layer := range l {
		layers = append(layers, layer)
	}
	slices.Sort(layers)
	var out []uint64
	for _, layer := range layers {
		out = append(out, l[layer]...)
	}
	return out
}

func (l LayerEntities) Contains(e uint64) bool {
	for _, ents := range l {
		if slices.Contains(ents, e) {
			return true
		}
	}
	return false
}

// Reset empties every layer while keeping the backing arrays.
func (l LayerEntities) Reset() {
	for layer, ents := range l {
		l[layer] = ents[:0]
	}
}

// Collisions lists, per layer, the entities a dynamic body was corrected
// against this tick.
type Collisions struct {
	LayerEntities
}

func NewCollisions() *Collisions {
	return &Collisions{LayerEntities: LayerEntities{}}
}

var CollisionsComponent = NewComponent[Collisions]()

// Resolution is the sum of positional corrections applied this tick.
type Resolution struct {
	cp.Vector
}

var ResolutionComponent = NewComponent[Resolution]()
