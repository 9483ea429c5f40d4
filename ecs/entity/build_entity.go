package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
	"github.com/milk9111/spire/prefabs"
)

var (
	ErrNoRegistry    = errors.New("build entity: layer registry is nil")
	ErrEmptyCollider = errors.New("collider needs exactly one of rect or circle")
)

type buildContext struct {
	PrefabPath string
	Registry   *physics.LayerRegistry
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":    addPlayerTag,
	"clock_tag":     addClockTag,
	"transform":     addTransform,
	"collider":      addCollider,
	"static_body":   addStaticBody,
	"dynamic_body":  addDynamicBody,
	"massive":       addMassive,
	"velocity":      addVelocity,
	"mass":          addMass,
	"max_velocity":  addMaxVelocity,
	"gravitational": addGravitational,
	"layers":        addLayers,
	"trigger":       addTrigger,
	"time_scale":    addTimeScale,
	"ttl":           addTTL,
	"force_script":  addForceScript,
}

var componentBuildOrder = []string{
	"player_tag",
	"clock_tag",
	"transform",
	"collider",
	"static_body",
	"dynamic_body",
	"massive",
	"velocity",
	"mass",
	"max_velocity",
	"gravitational",
	"layers",
	"trigger",
	"time_scale",
	"ttl",
	"force_script",
}

// BuildEntity instantiates the prefab at prefabPath. Layer names are
// resolved against reg.
func BuildEntity(w *ecs.World, prefabPath string, reg *physics.LayerRegistry) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if reg == nil {
		return 0, ErrNoRegistry
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Registry: reg}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

// SetEntityTransform moves e, keeping its GlobalTransform in step until the
// next transform pass.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if gt, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind()); ok {
		gt.X, gt.Y = x, y
	}
	return nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addClockTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ClockTagComponent.Kind(), &component.ClockTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{X: spec.X, Y: spec.Y})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	var col physics.Collider
	switch {
	case spec.Rect != nil && spec.Circle == nil:
		col = physics.NewRectCollider(cp.Vector{X: spec.Rect.X, Y: spec.Rect.Y}, cp.Vector{X: spec.Rect.W, Y: spec.Rect.H})
	case spec.Circle != nil && spec.Rect == nil:
		col = physics.NewCircleCollider(cp.Vector{X: spec.Circle.X, Y: spec.Circle.Y}, spec.Circle.Radius)
	default:
		return ErrEmptyCollider
	}
	if err := col.Validate(); err != nil {
		return err
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Collider: col})
}

func addStaticBody(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.StaticBodyComponent.Kind(), &component.StaticBody{})
}

func addDynamicBody(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DynamicBodyComponent.Kind(), &component.DynamicBody{})
}

func addMassive(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.MassiveComponent.Kind(), &component.Massive{})
}

type velocitySpec = prefabs.VelocityComponentSpec

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[velocitySpec](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{Vector: cp.Vector{X: spec.X, Y: spec.Y}})
}

type massSpec = prefabs.MassComponentSpec

func addMass(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[massSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mass spec: %w", err)
	}
	if spec.Value < 0 {
		return fmt.Errorf("mass must be positive, got %v", spec.Value)
	}
	if spec.Value == 0 {
		spec.Value = 1
	}
	return ecs.Add(w, e, component.MassComponent.Kind(), &component.Mass{Value: spec.Value})
}

type maxVelocitySpec = prefabs.MaxVelocityComponentSpec

func addMaxVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[maxVelocitySpec](raw)
	if err != nil {
		return fmt.Errorf("decode max velocity spec: %w", err)
	}
	if spec.X < 0 || spec.Y < 0 {
		return fmt.Errorf("max velocity must be non-negative, got (%v, %v)", spec.X, spec.Y)
	}
	return ecs.Add(w, e, component.MaxVelocityComponent.Kind(), &component.MaxVelocity{Vector: cp.Vector{X: spec.X, Y: spec.Y}})
}

type gravitationalSpec = prefabs.GravitationalComponentSpec

func addGravitational(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[gravitationalSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gravitational spec: %w", err)
	}
	return ecs.Add(w, e, component.GravitationalComponent.Kind(), &component.Gravitational{Scale: spec.Scale})
}

type layersSpec = prefabs.LayersComponentSpec

func addLayers(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[layersSpec](raw)
	if err != nil {
		return fmt.Errorf("decode layers spec: %w", err)
	}
	member, err := ctx.Registry.Set(spec.Member...)
	if err != nil {
		return fmt.Errorf("member: %w", err)
	}
	collides, err := ctx.Registry.Set(spec.CollidesWith...)
	if err != nil {
		return fmt.Errorf("collides_with: %w", err)
	}
	triggers, err := ctx.Registry.Set(spec.TriggersWith...)
	if err != nil {
		return fmt.Errorf("triggers_with: %w", err)
	}

	if !member.Empty() {
		if err := ecs.Add(w, e, component.LayerMemberComponent.Kind(), &component.LayerMember{Layers: member}); err != nil {
			return err
		}
	}
	if !collides.Empty() {
		if err := ecs.Add(w, e, component.CollidesWithComponent.Kind(), &component.CollidesWith{Layers: collides}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.CollisionsComponent.Kind(), component.NewCollisions()); err != nil {
			return err
		}
	}
	if !triggers.Empty() {
		if err := ecs.Add(w, e, component.TriggersWithComponent.Kind(), &component.TriggersWith{Layers: triggers}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.TriggersComponent.Kind(), component.NewTriggers()); err != nil {
			return err
		}
	}
	return nil
}

func addTrigger(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{})
}

type timeScaleSpec = prefabs.TimeScaleComponentSpec

func addTimeScale(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[timeScaleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode time scale spec: %w", err)
	}
	return ecs.Add(w, e, component.TimeScaleComponent.Kind(), &component.TimeScale{Scale: spec.Scale})
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Frames <= 0 {
		return fmt.Errorf("ttl frames must be positive, got %d", spec.Frames)
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: spec.Frames})
}

type forceScriptSpec = prefabs.ForceScriptComponentSpec

func addForceScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[forceScriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode force script spec: %w", err)
	}
	if spec.Path == "" {
		return fmt.Errorf("force script path is empty")
	}
	return ecs.Add(w, e, component.ForceScriptComponent.Kind(), &component.ForceScript{Path: spec.Path})
}
