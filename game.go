package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/ecs/entity"
	"github.com/milk9111/spire/ecs/system"
	"github.com/milk9111/spire/levels"
	"github.com/milk9111/spire/physics"
	"github.com/milk9111/spire/prefabs"
	"github.com/milk9111/spire/telemetry"
)

type Options struct {
	Level       string
	PhysicsPath string
	Every       int
	Watch       bool
	// Serve, when set, streams one telemetry frame per tick to websocket
	// clients connected at ws://<Serve>/ws.
	Serve string
}

// Game runs one level headlessly and reports what happens to the player.
type Game struct {
	opts     Options
	frames   int
	spec     prefabs.PhysicsSpec
	registry *physics.LayerRegistry
	config   system.Config

	world    *ecs.World
	pipeline *system.Pipeline
	watcher  *prefabs.Watcher
	hub      *telemetry.Hub
	server   *http.Server
	addr     string

	grounded bool
	touching map[physics.Layer]bool

	enters int
	exits  int
}

func NewGame(opts Options) (*Game, error) {
	spec, err := prefabs.LoadPhysicsSpec(opts.PhysicsPath)
	if err != nil {
		return nil, err
	}
	reg, err := spec.Registry()
	if err != nil {
		return nil, fmt.Errorf("physics registry: %w", err)
	}
	cfg, err := system.ConfigFromSpec(spec, reg)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:     opts,
		spec:     spec,
		registry: reg,
		config:   cfg,
	}
	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"), levels.DiskDir)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		g.watcher = w
		log.Printf("watch: watching %s and %s", prefabs.DiskDir, levels.DiskDir)
	}

	if opts.Serve != "" {
		if err := g.serve(opts.Serve); err != nil {
			g.Close()
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("telemetry: listen %s: %w", addr, err)
	}
	g.hub = telemetry.NewHub(telemetry.HubConfig{})
	mux := http.NewServeMux()
	mux.Handle("/ws", g.hub)
	g.server = &http.Server{Handler: mux}
	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("telemetry: serve: %v", err)
		}
	}()
	g.addr = ln.Addr().String()
	log.Printf("telemetry: streaming on ws://%s/ws", g.addr)
	return nil
}

// loadLevel builds a fresh world and pipeline for the configured level.
// Pipeline state (static index bookkeeping, trigger states, compiled
// scripts) belongs to one world, so both are replaced together.
func (g *Game) loadLevel() error {
	lvl, err := levels.LoadLevelFromFS(g.opts.Level)
	if err != nil {
		return fmt.Errorf("load level %s: %w", g.opts.Level, err)
	}
	w := ecs.NewWorld()
	if _, err := entity.LoadLevelToWorld(w, g.opts.Level, lvl, g.registry, g.spec.Cells.Static); err != nil {
		return err
	}
	g.world = w
	g.pipeline = system.NewPipeline(g.registry, g.config)
	g.grounded = false
	g.touching = make(map[physics.Layer]bool)
	log.Printf("level: loaded %s (%dx%d, %d entities)", g.opts.Level, lvl.Width, lvl.Height, len(w.Entities()))
	return nil
}

func (g *Game) TickDuration() time.Duration {
	return time.Duration(g.config.DT * float64(time.Second))
}

func (g *Game) Update() error {
	g.drainWatcher()

	g.frames++
	g.pipeline.Update(g.world)
	g.report()
	if g.hub != nil {
		if err := g.hub.Broadcast(telemetry.Snapshot(g.world, g.pipeline.Tick())); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.handleChange(change)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) handleChange(change prefabs.Change) {
	base := filepath.Base(change.Path)
	switch change.Kind {
	case prefabs.ChangeSpec:
		if base != filepath.Base(g.opts.PhysicsPath) {
			log.Printf("watch: prefab %s changed; applies to the next level load", base)
			return
		}
		if err := g.reloadPhysics(); err != nil {
			log.Printf("watch: reload %s: %v", base, err)
		}
	case prefabs.ChangeScript:
		g.pipeline.Scripts().Invalidate(change.Path)
		log.Printf("watch: script %s reloaded", base)
	case prefabs.ChangeLevel:
		if strings.TrimSuffix(base, ".json") != strings.TrimSuffix(filepath.Base(g.opts.Level), ".json") {
			return
		}
		if err := g.loadLevel(); err != nil {
			log.Printf("watch: reload level: %v", err)
		}
	}
}

// reloadPhysics swaps tunables in place. The layer table is fixed for the
// life of the process.
func (g *Game) reloadPhysics() error {
	spec, err := prefabs.LoadPhysicsSpec(g.opts.PhysicsPath)
	if err != nil {
		return err
	}
	if !sameLayers(g.spec.Layers, spec.Layers) {
		log.Printf("physics: layer table changed; restart to apply it")
	}
	cfg, err := system.ConfigFromSpec(spec, g.registry)
	if err != nil {
		return err
	}
	g.spec.DT, g.spec.Gravity, g.spec.MaxFallSpeed = spec.DT, spec.Gravity, spec.MaxFallSpeed
	g.config = cfg
	g.pipeline.Apply(cfg)
	log.Printf("physics: applied dt=%.4f gravity=(%.2f,%.2f) max_fall=%.1f", cfg.DT, cfg.Gravity.X, cfg.Gravity.Y, cfg.MaxFallSpeed)
	return nil
}

func sameLayers(a, b []prefabs.LayerSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (g *Game) report() {
	events := g.world.Events()
	for _, ev := range ecs.EventsOf[system.TriggerEnter](events) {
		g.enters++
		log.Printf("trigger: tick=%d enter trigger=%v target=%v", g.pipeline.Tick(), ev.Trigger, ev.Target)
	}
	for _, ev := range ecs.EventsOf[system.TriggerExit](events) {
		g.exits++
		log.Printf("trigger: tick=%d exit trigger=%v target=%v", g.pipeline.Tick(), ev.Trigger, ev.Target)
	}

	player, ok := g.world.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	grounded := ecs.Has(g.world, player, component.GroundedComponent.Kind())
	if grounded != g.grounded {
		g.grounded = grounded
		log.Printf("player: tick=%d grounded=%v", g.pipeline.Tick(), grounded)
	}

	if col, ok := ecs.Get(g.world, player, component.CollisionsComponent.Kind()); ok {
		for _, layer := range g.registry.WithStage(physics.StageCollision) {
			touching := len(col.Of(layer)) > 0
			if touching && !g.touching[layer] {
				log.Printf("player: tick=%d touched %s", g.pipeline.Tick(), g.registry.Name(layer))
			}
			g.touching[layer] = touching
		}
	}

	if g.opts.Every > 0 && g.frames%g.opts.Every == 0 {
		t, _ := ecs.Get(g.world, player, component.TransformComponent.Kind())
		v, _ := ecs.Get(g.world, player, component.VelocityComponent.Kind())
		if t != nil && v != nil {
			log.Printf("player: tick=%d pos=(%.2f,%.2f) vel=(%.2f,%.2f)", g.pipeline.Tick(), t.X, t.Y, v.X, v.Y)
		}
	}
}

func (g *Game) Summary() {
	log.Printf("done: %d ticks, %d trigger enters, %d exits", g.frames, g.enters, g.exits)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.hub != nil {
		g.hub.Close()
	}
	if g.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = g.server.Shutdown(ctx)
	}
}
