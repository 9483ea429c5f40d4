package physics

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var ErrUnknownLayer = errors.New("physics: unknown layer")

// MaxLayers bounds how many layers a LayerSet can address.
const MaxLayers = 32

// Layer partitions bodies into groups that collide or trigger with each other.
type Layer uint8

// Bit returns the single-layer set for l.
func (l Layer) Bit() LayerSet {
	return LayerSet(1) << l
}

// LayerSet is a bitmask of layers, the same shape as a category/mask pair.
type LayerSet uint32

func NewLayerSet(layers ...Layer) LayerSet {
	var s LayerSet
	for _, l := range layers {
		s |= l.Bit()
	}
	return s
}

func (s LayerSet) Has(l Layer) bool {
	return s&l.Bit() != 0
}

func (s LayerSet) With(l Layer) LayerSet {
	return s | l.Bit()
}

func (s LayerSet) Without(l Layer) LayerSet {
	return s &^ l.Bit()
}

func (s LayerSet) Empty() bool {
	return s == 0
}

func (s LayerSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Layers lists the members in ascending order.
func (s LayerSet) Layers() []Layer {
	out := make([]Layer, 0, s.Len())
	for l := Layer(0); l < MaxLayers; l++ {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Stage is a physics pass a layer can be registered for.
type Stage uint8

const (
	StageCollision Stage = 1 << iota
	StageGrounded
	StageBrushing
	StageTrigger
)

func (s Stage) String() string {
	var parts []string
	for _, st := range []struct {
		stage Stage
		name  string
	}{
		{StageCollision, "collision"},
		{StageGrounded, "grounded"},
		{StageBrushing, "brushing"},
		{StageTrigger, "trigger"},
	} {
		if s&st.stage != 0 {
			parts = append(parts, st.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// LayerRegistry maps layer names to ids and ids to the stages that run for them.
type LayerRegistry struct {
	names  []string
	byName map[string]Layer
	stages map[Layer]Stage
}

func NewLayerRegistry() *LayerRegistry {
	return &LayerRegistry{
		byName: make(map[string]Layer),
		stages: make(map[Layer]Stage),
	}
}

// Register adds (or extends) a named layer with the given stages.
func (r *LayerRegistry) Register(name string, stages Stage) (Layer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, fmt.Errorf("physics: register layer: empty name")
	}
	if l, ok := r.byName[key]; ok {
		r.stages[l] |= stages
		return l, nil
	}
	if len(r.names) >= MaxLayers {
		return 0, fmt.Errorf("physics: register layer %q: more than %d layers", name, MaxLayers)
	}
	l := Layer(len(r.names))
	r.names = append(r.names, key)
	r.byName[key] = l
	r.stages[l] = stages
	return l, nil
}

// Layer looks up a layer by name.
func (r *LayerRegistry) Layer(name string) (Layer, error) {
	if r == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	l, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l, nil
}

// MustLayer is Layer for startup wiring where an unknown name is a programmer error.
func (r *LayerRegistry) MustLayer(name string) Layer {
	l, err := r.Layer(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Set resolves several names into a LayerSet.
func (r *LayerRegistry) Set(names ...string) (LayerSet, error) {
	var s LayerSet
	for _, name := range names {
		l, err := r.Layer(name)
		if err != nil {
			return 0, err
		}
		s = s.With(l)
	}
	return s, nil
}

func (r *LayerRegistry) Name(l Layer) string {
	if r == nil || int(l) >= len(r.names) {
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
	return r.names[l]
}

// WithStage returns every layer registered for stage, in id order.
func (r *LayerRegistry) WithStage(stage Stage) []Layer {
	if r == nil {
		return nil
	}
	var out []Layer
	for i := range r.names {
		l := Layer(i)
		if r.stages[l]&stage != 0 {
			out = append(out, l)
		}
	}
	return out
}

// StageSet is WithStage folded into a LayerSet.
func (r *LayerRegistry) StageSet(stage Stage) LayerSet {
	return NewLayerSet(r.WithStage(stage)...)
}
