package ecs

import "github.com/milk9111/spire/ecs/component"

// Components are stored as *T so ForEach callbacks and Get callers mutate
// them in place.

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	return w.AddComponent(e, kind, value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.RemoveComponent(e, kind)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.HasComponent(e, kind)
}

// Get returns a pointer into storage; it is invalidated by Remove or DestroyEntity.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	value, ok := w.GetComponent(e, kind)
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok {
		return nil, false
	}
	return cast, true
}

// Ensure returns e's component, adding init() first when it is missing.
func Ensure[T any](w *World, e Entity, kind component.ComponentKind[T], init func() *T) (*T, error) {
	if v, ok := Get(w, e, kind); ok {
		return v, nil
	}
	v := init()
	if err := Add(w, e, kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range w.Query(ka) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(ka, kb, kc, kd) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		d, okD := Get(w, e, kd)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, a, b, c, d)
	}
}
