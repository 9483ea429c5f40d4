package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/physics"
	"github.com/milk9111/spire/prefabs"
)

// Config holds the tunables that may change while the pipeline runs.
type Config struct {
	DT              float64
	Gravity         cp.Vector
	MaxFallSpeed    float64
	ContactEpsilon  float64
	DynamicCellSize float64
	TriggerCellSize float64
	RayCastSamples  int
	SightLayer      physics.Layer
}

func DefaultConfig() Config {
	return Config{
		DT:              1.0 / 60.0,
		Gravity:         cp.Vector{Y: -10},
		MaxFallSpeed:    -300,
		ContactEpsilon:  physics.DefaultContactEpsilon,
		DynamicCellSize: 32,
		TriggerCellSize: 64,
		RayCastSamples:  16,
	}
}

func ConfigFromSpec(spec prefabs.PhysicsSpec, reg *physics.LayerRegistry) (Config, error) {
	cfg := Config{
		DT:              spec.DT,
		Gravity:         spec.Gravity.Vec(),
		MaxFallSpeed:    spec.MaxFallSpeed,
		ContactEpsilon:  spec.ContactEpsilon,
		DynamicCellSize: spec.Cells.Dynamic,
		TriggerCellSize: spec.Cells.Trigger,
		RayCastSamples:  spec.RayCastSamples,
	}
	if spec.SightLayer != "" {
		l, err := reg.Layer(spec.SightLayer)
		if err != nil {
			return Config{}, fmt.Errorf("physics config: sight layer: %w", err)
		}
		cfg.SightLayer = l
	}
	return cfg, nil
}

// Pipeline runs the physics systems once per tick in a fixed order:
// ttl, clear resolution, time scale, scripted forces, gravity, velocity,
// transform propagation, static indexing, static then dynamic collision per
// collision layer, contacts, triggers and trigger states.
type Pipeline struct {
	registry  *physics.LayerRegistry
	scheduler *ecs.Scheduler

	gravity  *GravitySystem
	velocity *VelocitySystem
	scripts  *ScriptForceSystem
	statics  *StaticIndexSystem
	dynamics []*DynamicCollisionSystem
	contacts *ContactSystem
	triggers *TriggerSystem
	states   *TriggerStateSystem

	tick uint64
}

func NewPipeline(reg *physics.LayerRegistry, cfg Config) *Pipeline {
	if reg == nil {
		reg = physics.NewLayerRegistry()
	}
	p := &Pipeline{
		registry: reg,
		gravity:  NewGravitySystem(cfg.Gravity, cfg.MaxFallSpeed),
		velocity: NewVelocitySystem(cfg.DT),
		scripts:  NewScriptForceSystem(cfg.SightLayer, cfg.RayCastSamples),
		statics:  NewStaticIndexSystem(),
		contacts: NewContactSystem(reg.WithStage(physics.StageGrounded), reg.WithStage(physics.StageBrushing), cfg.ContactEpsilon),
		triggers: NewTriggerSystem(reg.WithStage(physics.StageTrigger), cfg.TriggerCellSize),
		states:   NewTriggerStateSystem(),
	}

	p.scheduler = ecs.NewScheduler(
		NewTTLSystem(),
		NewClearResolutionSystem(),
		NewTimeScaleSystem(),
		p.scripts,
		p.gravity,
		p.velocity,
		NewTransformSystem(),
		p.statics,
	)
	for _, layer := range reg.WithStage(physics.StageCollision) {
		dyn := NewDynamicCollisionSystem(layer, cfg.DynamicCellSize)
		p.dynamics = append(p.dynamics, dyn)
		p.scheduler.Add(NewStaticCollisionSystem(layer))
		p.scheduler.Add(dyn)
	}
	p.scheduler.Add(p.contacts)
	p.scheduler.Add(p.triggers)
	p.scheduler.Add(p.states)
	return p
}

// Update clears last tick's events and runs one tick.
func (p *Pipeline) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	w.Events().Clear()
	p.scheduler.Update(w)
	p.tick++
}

// Apply swaps tunables in place. The layer table is fixed at construction.
func (p *Pipeline) Apply(cfg Config) {
	p.gravity.Gravity = cfg.Gravity
	p.gravity.MaxFallSpeed = cfg.MaxFallSpeed
	p.velocity.DT = cfg.DT
	p.scripts.SightLayer = cfg.SightLayer
	p.scripts.RaySamples = cfg.RayCastSamples
	if cfg.ContactEpsilon > 0 {
		p.contacts.Epsilon = cfg.ContactEpsilon
	}
	for _, d := range p.dynamics {
		d.CellSize = cfg.DynamicCellSize
	}
	p.triggers.CellSize = cfg.TriggerCellSize
}

func (p *Pipeline) Tick() uint64 {
	return p.tick
}

func (p *Pipeline) Registry() *physics.LayerRegistry {
	return p.registry
}

func (p *Pipeline) Scripts() *ScriptForceSystem {
	return p.scripts
}

func (p *Pipeline) TriggerStates() *TriggerStateSystem {
	return p.states
}

func (p *Pipeline) Systems() []ecs.System {
	return p.scheduler.Systems()
}
