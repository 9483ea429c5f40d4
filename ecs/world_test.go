package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/spire/ecs/component"
)

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func ptr[T any](v T) *T { return &v }

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
			}
		})
	}
}

func TestWorldRecyclesSlotWithNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h.Kind(), ptr(7)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, fresh)
	}
	if fresh == old {
		t.Fatalf("expected a new generation for the recycled slot")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if _, ok := Get(w, old, h.Kind()); ok {
		t.Fatalf("stale handle must not resolve")
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), ptr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), ptr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), ptr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name:  "ptr_mutation_is_visible",
			setup: func() error { return Add(w, e2, h1.Kind(), ptr(1)) },
			check: func(t *testing.T) {
				p, ok := Get(w, e2, h1.Kind())
				if !ok {
					t.Fatalf("expected pointer")
				}
				*p = 42
				if v, _ := Get(w, e2, h1.Kind()); *v != 42 {
					t.Fatalf("expected 42 after mutation, got %d", *v)
				}
			},
			teardown: func() bool { return Remove(w, e2, h1.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddToDeadEntity(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := w.CreateEntity()
	w.DestroyEntity(e)
	if err := Add(w, e, h.Kind(), ptr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	if err := Add(w, e1, h.Kind(), ptr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), ptr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		*v *= 10
		ents = append(ents, e)
	})
	set := toSet(ents)
	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
	if v, _ := Get(w, e3, h.Kind()); *v != 30 {
		t.Fatalf("expected in-place mutation to 30, got %d", *v)
	}
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := w.CreateEntity()
				e2 := w.CreateEntity()
				e3 := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[int]()
				hc := component.NewComponent[int]()

				for _, step := range []error{
					Add(w, e1, ha.Kind(), ptr(1)),
					Add(w, e2, ha.Kind(), ptr(2)),
					Add(w, e2, hb.Kind(), ptr(3)),
					Add(w, e2, hc.Kind(), ptr(5)),
					Add(w, e3, hb.Kind(), ptr(4)),
				} {
					if step != nil {
						t.Fatal(step)
					}
				}

				var res []Entity
				ForEach3(w, ha.Kind(), hb.Kind(), hc.Kind(), func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[int]()
				hc := component.NewComponent[int]()

				_ = Add(w, e, ha.Kind(), ptr(1))
				_ = Add(w, e, hb.Kind(), ptr(2))
				_ = Add(w, e, hc.Kind(), ptr(3))

				if !w.DestroyEntity(e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, ha.Kind(), hb.Kind(), hc.Kind(), func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()

				ha := component.NewComponent[int]()
				hb := component.NewComponent[int]()
				hc := component.NewComponent[int]()

				_ = Add(w, e, ha.Kind(), ptr(1))

				var res []Entity
				ForEach3(w, ha.Kind(), hb.Kind(), hc.Kind(), func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryOrderedBySlot(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	ents := []Entity{w.CreateEntity(), w.CreateEntity(), w.CreateEntity()}
	for i := len(ents) - 1; i >= 0; i-- {
		_ = Add(w, ents[i], h.Kind(), ptr(i))
	}
	// swap-remove reshuffles the dense array; Query must not care
	Remove(w, ents[0], h.Kind())
	_ = Add(w, ents[0], h.Kind(), ptr(0))

	got := w.Query(h.Kind())
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %v", got)
	}
	for i := range got {
		if got[i] != ents[i] {
			t.Fatalf("expected slot order %v, got %v", ents, got)
		}
	}
}

func TestEnsureAddsOnce(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[[]int]()
	e := CreateEntity(w)

	calls := 0
	init := func() *[]int { calls++; return &[]int{} }
	a, err := Ensure(w, e, h.Kind(), init)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	*a = append(*a, 1)
	b, _ := Ensure(w, e, h.Kind(), init)
	if calls != 1 || len(*b) != 1 {
		t.Fatalf("expected one init and shared storage, calls=%d len=%d", calls, len(*b))
	}
	if err := Add[int](w, e, component.NewComponent[int]().Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestEventsOf(t *testing.T) {
	type ping struct{ N int }
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: "ping", Data: ping{N: 1}})
	q.Push(Event{Type: "other", Data: "x"})
	q.Push(Event{Type: "ping", Data: ping{N: 2}})

	got := EventsOf[ping](q)
	if len(got) != 2 || got[0].N != 1 || got[1].N != 2 {
		t.Fatalf("unexpected pings %v", got)
	}
	q.Clear()
	if len(q.Items()) != 0 {
		t.Fatalf("expected empty queue after Clear")
	}
}
