package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a body prefab: a name plus raw per-component specs,
// decoded lazily by the component builders.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RectSpec is relative to the entity: X/Y is the top-left corner.
type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type CircleSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// ColliderComponentSpec sets exactly one of Rect or Circle.
type ColliderComponentSpec struct {
	Rect   *RectSpec   `yaml:"rect"`
	Circle *CircleSpec `yaml:"circle"`
}

type VelocityComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type MaxVelocityComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type MassComponentSpec struct {
	Value float64 `yaml:"value"`
}

type GravitationalComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

// LayersComponentSpec names layers from physics.yaml.
type LayersComponentSpec struct {
	Member       []string `yaml:"member"`
	CollidesWith []string `yaml:"collides_with"`
	TriggersWith []string `yaml:"triggers_with"`
}

type TimeScaleComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

type TTLComponentSpec struct {
	Frames int `yaml:"frames"`
}

type ForceScriptComponentSpec struct {
	Path string `yaml:"path"`
}
