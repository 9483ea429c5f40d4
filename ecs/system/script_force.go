package system

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/physics"
	"github.com/milk9111/spire/prefabs"
)

const forceScriptDispatch = `
update(__engine, __state)
`

type forceScriptRuntime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
}

// ScriptForceSystem runs each entity's ForceScript once per tick. Scripts
// define update(engine, state) and push forces with engine.apply_force.
type ScriptForceSystem struct {
	Load       func(path string) ([]byte, error)
	SightLayer physics.Layer
	RaySamples int

	cache  map[ecs.Entity]*forceScriptRuntime
	failed map[string]bool
	tick   int64
}

func NewScriptForceSystem(sightLayer physics.Layer, raySamples int) *ScriptForceSystem {
	return &ScriptForceSystem{
		Load:       prefabs.LoadScript,
		SightLayer: sightLayer,
		RaySamples: raySamples,
		cache:      make(map[ecs.Entity]*forceScriptRuntime),
		failed:     make(map[string]bool),
	}
}

// Invalidate drops compiled scripts loaded from path so they are rebuilt on
// the next tick.
func (s *ScriptForceSystem) Invalidate(path string) {
	base := filepath.Base(filepath.ToSlash(path))
	for e, rt := range s.cache {
		if filepath.Base(rt.path) == base {
			delete(s.cache, e)
		}
	}
	for p := range s.failed {
		if filepath.Base(p) == base {
			delete(s.failed, p)
		}
	}
}

func (s *ScriptForceSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.tick++
	for e := range s.cache {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ForceScriptComponent.Kind()) {
			delete(s.cache, e)
		}
	}

	player, hasPlayer := w.First(component.PlayerTagComponent.Kind())
	ecs.ForEach(w, component.ForceScriptComponent.Kind(), func(e ecs.Entity, fs *component.ForceScript) {
		if strings.TrimSpace(fs.Path) == "" || s.failed[fs.Path] {
			return
		}
		rt, err := s.runtime(e, fs.Path)
		if err != nil {
			log.Printf("physics: entity=%v load force script %s: %v", e, fs.Path, err)
			s.failed[fs.Path] = true
			return
		}
		acc, err := ecs.Ensure(w, e, component.AccelerationComponent.Kind(), func() *component.Acceleration {
			return &component.Acceleration{}
		})
		if err != nil {
			return
		}
		engine := s.engine(w, e, acc, player, hasPlayer)
		if err := rt.run(engine); err != nil {
			log.Printf("physics: entity=%v force script %s: %v", e, fs.Path, err)
			s.failed[fs.Path] = true
		}
	})
}

func (s *ScriptForceSystem) runtime(e ecs.Entity, path string) (*forceScriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	load := s.Load
	if load == nil {
		load = prefabs.LoadScript
	}
	src, err := load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + forceScriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt := &forceScriptRuntime{
		path:      path,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.cache[e] = rt
	return rt, nil
}

func (rt *forceScriptRuntime) run(engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *ScriptForceSystem) engine(w *ecs.World, e ecs.Entity, acc *component.Acceleration, player ecs.Entity, hasPlayer bool) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["apply_force"] = &tengo.UserFunction{Name: "apply_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		acc.ApplyForce(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var v cp.Vector
		if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			v = vel.Vector
		}
		return vectorObject(v), nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(worldPosition(w, e)), nil
	}}

	values["get_player_position"] = &tengo.UserFunction{Name: "get_player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if !hasPlayer || !w.IsAlive(player) {
			return tengo.UndefinedValue, nil
		}
		return vectorObject(worldPosition(w, player)), nil
	}}

	values["line_of_sight"] = &tengo.UserFunction{Name: "line_of_sight", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		return boolObject(LineOfSight(w, s.SightLayer, worldPosition(w, e), cp.Vector{X: x, Y: y}, s.RaySamples)), nil
	}}

	values["is_grounded"] = markerFunc("is_grounded", func() bool {
		return ecs.Has(w, e, component.GroundedComponent.Kind())
	})
	values["is_brushing_left"] = markerFunc("is_brushing_left", func() bool {
		return ecs.Has(w, e, component.BrushingLeftComponent.Kind())
	})
	values["is_brushing_right"] = markerFunc("is_brushing_right", func() bool {
		return ecs.Has(w, e, component.BrushingRightComponent.Kind())
	})

	values["get_tick"] = &tengo.UserFunction{Name: "get_tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: s.tick}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func markerFunc(name string, fn func() bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(fn()), nil
	}}
}

func vectorObject(v cp.Vector) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
