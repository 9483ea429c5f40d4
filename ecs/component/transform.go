package component

import "github.com/jakecoffman/cp"

// Transform is an entity's position relative to its Parent, or to the world
// when it has none.
type Transform struct {
	X float64
	Y float64
}

func (t Transform) Vec() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) Translate(v cp.Vector) {
	t.X += v.X
	t.Y += v.Y
}

var TransformComponent = NewComponent[Transform]()

// GlobalTransform is the world-space position derived from the Transform
// chain. Collision systems read and write it directly so corrections are
// visible to later passes in the same tick.
type GlobalTransform struct {
	X float64
	Y float64
}

func (t GlobalTransform) Vec() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *GlobalTransform) Translate(v cp.Vector) {
	t.X += v.X
	t.Y += v.Y
}

var GlobalTransformComponent = NewComponent[GlobalTransform]()

// Parent links a child entity (ecs.Entity is uint64) to its parent.
type Parent struct {
	Entity uint64
}

var ParentComponent = NewComponent[Parent]()
