package prefabs

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vec() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// CellSpec holds the spatial hash cell sizes.
type CellSpec struct {
	Static  float64 `yaml:"static"`
	Dynamic float64 `yaml:"dynamic"`
	Trigger float64 `yaml:"trigger"`
}

// LayerSpec is one row of the layer table: a name plus the passes it runs in.
type LayerSpec struct {
	Name      string `yaml:"name"`
	Collision bool   `yaml:"collision"`
	Grounded  bool   `yaml:"grounded"`
	Brushing  bool   `yaml:"brushing"`
	Trigger   bool   `yaml:"trigger"`
}

func (l LayerSpec) Stages() physics.Stage {
	var s physics.Stage
	if l.Collision {
		s |= physics.StageCollision
	}
	if l.Grounded {
		s |= physics.StageGrounded
	}
	if l.Brushing {
		s |= physics.StageBrushing
	}
	if l.Trigger {
		s |= physics.StageTrigger
	}
	return s
}

// PhysicsSpec is physics.yaml: tick tunables and the layer table.
type PhysicsSpec struct {
	DT             float64     `yaml:"dt"`
	Gravity        VectorSpec  `yaml:"gravity"`
	MaxFallSpeed   float64     `yaml:"max_fall_speed"`
	ContactEpsilon float64     `yaml:"contact_epsilon"`
	Cells          CellSpec    `yaml:"cells"`
	RayCastSamples int         `yaml:"ray_cast_samples"`
	SightLayer     string      `yaml:"sight_layer"`
	Layers         []LayerSpec `yaml:"layers"`
}

func LoadPhysicsSpec(filename string) (PhysicsSpec, error) {
	spec, err := LoadSpec[PhysicsSpec](filename)
	if err != nil {
		return PhysicsSpec{}, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return PhysicsSpec{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

func (s *PhysicsSpec) applyDefaults() {
	if s.DT <= 0 {
		s.DT = 1.0 / 60.0
	}
	if s.MaxFallSpeed == 0 {
		s.MaxFallSpeed = -300
	}
	if s.ContactEpsilon <= 0 {
		s.ContactEpsilon = physics.DefaultContactEpsilon
	}
	if s.Cells.Static <= 0 {
		s.Cells.Static = 32
	}
	if s.Cells.Dynamic <= 0 {
		s.Cells.Dynamic = 32
	}
	if s.Cells.Trigger <= 0 {
		s.Cells.Trigger = 64
	}
	if s.RayCastSamples <= 0 {
		s.RayCastSamples = 16
	}
}

// Validate checks the layer table. It does not apply defaults.
func (s PhysicsSpec) Validate() error {
	if len(s.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidSpec)
	}
	if len(s.Layers) > physics.MaxLayers {
		return fmt.Errorf("%w: %d layers, max %d", ErrInvalidSpec, len(s.Layers), physics.MaxLayers)
	}
	seen := make(map[string]bool, len(s.Layers))
	for i, l := range s.Layers {
		if l.Name == "" {
			return fmt.Errorf("%w: layer %d has no name", ErrInvalidSpec, i)
		}
		if seen[l.Name] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalidSpec, l.Name)
		}
		seen[l.Name] = true
		if l.Stages() == 0 {
			return fmt.Errorf("%w: layer %q runs in no pass", ErrInvalidSpec, l.Name)
		}
	}
	if s.SightLayer != "" && !seen[s.SightLayer] {
		return fmt.Errorf("%w: sight_layer %q is not a layer", ErrInvalidSpec, s.SightLayer)
	}
	return nil
}

// Registry builds the layer registry described by the layer table.
func (s PhysicsSpec) Registry() (*physics.LayerRegistry, error) {
	reg := physics.NewLayerRegistry()
	for _, l := range s.Layers {
		if _, err := reg.Register(l.Name, l.Stages()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
