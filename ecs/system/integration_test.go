package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGravitySystem(t *testing.T) {
	tests := []struct {
		name     string
		vy       float64
		scale    float64
		grounded bool
		want     []cp.Vector
	}{
		{name: "airborne", vy: 0, scale: 1, want: []cp.Vector{{Y: -10}}},
		{name: "scaled", vy: 0, scale: 2, want: []cp.Vector{{Y: -20}}},
		{name: "zero_scale_is_one", vy: 0, scale: 0, want: []cp.Vector{{Y: -10}}},
		{name: "grounded", vy: 0, scale: 1, grounded: true},
		{name: "terminal_velocity", vy: -300, scale: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{Vector: cp.Vector{Y: tc.vy}})
			mustAdd(t, w, e, component.GravitationalComponent.Kind(), &component.Gravitational{Scale: tc.scale})
			if tc.grounded {
				mustAdd(t, w, e, component.GroundedComponent.Kind(), &component.Grounded{})
			}

			NewGravitySystem(cp.Vector{Y: -10}, -300).Update(w)

			acc, ok := ecs.Get(w, e, component.AccelerationComponent.Kind())
			var got []cp.Vector
			if ok {
				got = acc.Forces
			}
			if len(got) != len(tc.want) {
				t.Fatalf("forces = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("forces = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestVelocitySystemAppliesTimeScaleOnce(t *testing.T) {
	tests := []struct {
		name      string
		global    float64
		local     float64
		hasLocal  bool
		wantVel   float64
		wantMoved float64
	}{
		{name: "no_clock", global: -1, wantVel: 60, wantMoved: 60},
		{name: "global_half", global: 0.5, wantVel: 30, wantMoved: 15},
		{name: "local_overrides_global", global: 0.5, local: 2, hasLocal: true, wantVel: 120, wantMoved: 240},
		{name: "frozen", global: 0, wantVel: 0, wantMoved: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			if tc.global >= 0 {
				clock := ecs.CreateEntity(w)
				mustAdd(t, w, clock, component.ClockTagComponent.Kind(), &component.ClockTag{})
				mustAdd(t, w, clock, component.TimeScaleComponent.Kind(), &component.TimeScale{Scale: tc.global})
			}

			e := ecs.CreateEntity(w)
			mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
			mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{})
			acc := &component.Acceleration{}
			acc.ApplyForce(cp.Vector{X: 120})
			mustAdd(t, w, e, component.AccelerationComponent.Kind(), acc)
			mustAdd(t, w, e, component.MassComponent.Kind(), &component.Mass{Value: 2})
			if tc.hasLocal {
				mustAdd(t, w, e, component.TimeScaleComponent.Kind(), &component.TimeScale{Scale: tc.local})
			}

			NewVelocitySystem(1).Update(w)

			vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
			if !approx(vel.X, tc.wantVel) {
				t.Fatalf("velocity x = %v, want %v", vel.X, tc.wantVel)
			}
			if got := positionOf(t, w, e).X; !approx(got, tc.wantMoved) {
				t.Fatalf("moved %v, want %v", got, tc.wantMoved)
			}
			if len(acc.Forces) != 0 {
				t.Fatal("forces should be cleared after integration")
			}
		})
	}
}

func TestVelocitySystemClampsWithoutForces(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{Vector: cp.Vector{X: -50, Y: 500}})
	mustAdd(t, w, e, component.MaxVelocityComponent.Kind(), &component.MaxVelocity{Vector: cp.Vector{X: 20}})

	NewVelocitySystem(0.5).Update(w)

	vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	if vel.X != -20 || vel.Y != 500 {
		t.Fatalf("clamped velocity = %v, want (-20,500)", vel.Vector)
	}
	if got := positionOf(t, w, e); got.X != -10 || got.Y != 250 {
		t.Fatalf("position = %v, want (-10,250)", got)
	}
}

func TestTimeScaleTween(t *testing.T) {
	w := ecs.NewWorld()
	clock := ecs.CreateEntity(w)
	mustAdd(t, w, clock, component.ClockTagComponent.Kind(), &component.ClockTag{})
	mustAdd(t, w, clock, component.TimeScaleTweenComponent.Kind(), &component.TimeScaleTween{From: 1, To: 0, Ticks: 4})

	sys := NewTimeScaleSystem()
	want := []float64{0.75, 0.5, 0.25, 0}
	for i, w0 := range want {
		sys.Update(w)
		if got := globalTimeScale(w); !approx(got, w0) {
			t.Fatalf("tick %d: scale = %v, want %v", i, got, w0)
		}
	}
	if ecs.Has(w, clock, component.TimeScaleTweenComponent.Kind()) {
		t.Fatal("finished tween should be removed")
	}
}

func TestTransformSystemPropagatesParents(t *testing.T) {
	w := ecs.NewWorld()
	root := ecs.CreateEntity(w)
	mustAdd(t, w, root, component.TransformComponent.Kind(), &component.Transform{X: 10, Y: 5})
	child := ecs.CreateEntity(w)
	mustAdd(t, w, child, component.TransformComponent.Kind(), &component.Transform{X: 1, Y: 1})
	mustAdd(t, w, child, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(root)})
	grandchild := ecs.CreateEntity(w)
	mustAdd(t, w, grandchild, component.TransformComponent.Kind(), &component.Transform{X: 0, Y: -2})
	mustAdd(t, w, grandchild, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(child)})
	orphan := ecs.CreateEntity(w)
	mustAdd(t, w, orphan, component.TransformComponent.Kind(), &component.Transform{X: 3, Y: 3})
	mustAdd(t, w, orphan, component.ParentComponent.Kind(), &component.Parent{Entity: 999})

	NewTransformSystem().Update(w)

	tests := []struct {
		name string
		e    ecs.Entity
		want cp.Vector
	}{
		{"root", root, cp.Vector{X: 10, Y: 5}},
		{"child", child, cp.Vector{X: 11, Y: 6}},
		{"grandchild", grandchild, cp.Vector{X: 11, Y: 4}},
		{"orphan", orphan, cp.Vector{X: 3, Y: 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt, ok := ecs.Get(w, tc.e, component.GlobalTransformComponent.Kind())
			if !ok {
				t.Fatal("expected GlobalTransform")
			}
			if gt.Vec() != tc.want {
				t.Fatalf("global = %v, want %v", gt.Vec(), tc.want)
			}
		})
	}
}

func TestTTLSystem(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 2})

	sys := NewTTLSystem()
	sys.Update(w)
	if !w.IsAlive(e) {
		t.Fatal("entity destroyed one tick early")
	}
	sys.Update(w)
	if w.IsAlive(e) {
		t.Fatal("entity should be destroyed when its ttl runs out")
	}
}

func TestClearResolutionSystem(t *testing.T) {
	layers := newTestLayers(t)
	w := ecs.NewWorld()
	e := newBody(t, w, 0, 0, 4, 4)
	collidesWith(t, w, e, layers.world)
	mustAdd(t, w, e, component.ResolutionComponent.Kind(), &component.Resolution{Vector: cp.Vector{X: 3}})
	col := component.NewCollisions()
	col.Add(layers.world, 42)
	mustAdd(t, w, e, component.CollisionsComponent.Kind(), col)

	NewClearResolutionSystem().Update(w)

	res, _ := ecs.Get(w, e, component.ResolutionComponent.Kind())
	if res.Vector != (cp.Vector{}) {
		t.Fatalf("resolution not cleared: %v", res.Vector)
	}
	if col.Contains(42) {
		t.Fatal("collisions not cleared")
	}
}
