// Package physics holds the shape primitives, narrow-phase tests and the
// spatial hash used by the collision systems. Coordinates are Y-up.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/common"
)

var (
	ErrNegativeExtent       = errors.New("physics: negative collider extent")
	ErrUnsupportedShapePair = errors.New("physics: unsupported shape pair")
)

// circleEpsilon biases circle separation so resolved circles stop touching.
const circleEpsilon = 0.0001

type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	default:
		return fmt.Sprintf("shape(%d)", uint8(k))
	}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	TopLeft cp.Vector
	Size    cp.Vector
}

func (r Rect) Left() float64   { return r.TopLeft.X }
func (r Rect) Right() float64  { return r.TopLeft.X + r.Size.X }
func (r Rect) Top() float64    { return r.TopLeft.Y }
func (r Rect) Bottom() float64 { return r.TopLeft.Y - r.Size.Y }

// BottomRight returns the corner opposite TopLeft.
func (r Rect) BottomRight() cp.Vector {
	return cp.Vector{X: r.Right(), Y: r.Bottom()}
}

func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.TopLeft.X + r.Size.X*0.5, Y: r.TopLeft.Y - r.Size.Y*0.5}
}

// BB converts to a chipmunk bounding box.
func (r Rect) BB() cp.BB {
	return cp.BB{L: r.Left(), B: r.Bottom(), R: r.Right(), T: r.Top()}
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p cp.Vector) bool {
	return r.Left() < p.X && r.Right() > p.X && r.Top() > p.Y && r.Bottom() < p.Y
}

// Expand scales r about its center.
func (r Rect) Expand(factor float64) Rect {
	center := r.Center()
	r.Size = r.Size.Mult(factor)
	r.TopLeft = r.TopLeft.Add(center.Sub(r.Center()))
	return r
}

type Circle struct {
	Center cp.Vector
	Radius float64
}

func (c Circle) BB() cp.BB {
	return cp.NewBBForCircle(c.Center, c.Radius)
}

func (c Circle) Contains(p cp.Vector) bool {
	return c.Center.DistanceSq(p) < c.Radius*c.Radius
}

func (c Circle) Expand(factor float64) Circle {
	c.Radius *= factor
	return c
}

// Collider is a shape stored relative to its owning entity.
type Collider struct {
	Kind   ShapeKind
	Rect   Rect
	Circle Circle
}

func NewRectCollider(topLeft, size cp.Vector) Collider {
	return Collider{Kind: ShapeRect, Rect: Rect{TopLeft: topLeft, Size: size}}
}

func NewCircleCollider(center cp.Vector, radius float64) Collider {
	return Collider{Kind: ShapeCircle, Circle: Circle{Center: center, Radius: radius}}
}

// Validate enforces non-negative extents.
func (c Collider) Validate() error {
	switch c.Kind {
	case ShapeRect:
		if c.Rect.Size.X < 0 || c.Rect.Size.Y < 0 {
			return fmt.Errorf("%w: rect size %v", ErrNegativeExtent, c.Rect.Size)
		}
	case ShapeCircle:
		if c.Circle.Radius < 0 {
			return fmt.Errorf("%w: circle radius %v", ErrNegativeExtent, c.Circle.Radius)
		}
	default:
		return fmt.Errorf("physics: unknown shape %v", c.Kind)
	}
	return nil
}

// Absolute translates the collider by the entity's world position.
func (c Collider) Absolute(pos cp.Vector) AbsoluteCollider {
	switch c.Kind {
	case ShapeCircle:
		return AbsoluteCollider{Kind: ShapeCircle, Circle: Circle{Center: c.Circle.Center.Add(pos), Radius: c.Circle.Radius}}
	default:
		return AbsoluteCollider{Kind: ShapeRect, Rect: Rect{TopLeft: c.Rect.TopLeft.Add(pos), Size: c.Rect.Size}}
	}
}

// AbsoluteCollider is a collider in world space. Derive it from a Collider
// whenever the owner moves; never keep it across ticks.
type AbsoluteCollider struct {
	Kind   ShapeKind
	Rect   Rect
	Circle Circle
}

func AbsoluteRect(topLeft, size cp.Vector) AbsoluteCollider {
	return AbsoluteCollider{Kind: ShapeRect, Rect: Rect{TopLeft: topLeft, Size: size}}
}

func AbsoluteCircle(center cp.Vector, radius float64) AbsoluteCollider {
	return AbsoluteCollider{Kind: ShapeCircle, Circle: Circle{Center: center, Radius: radius}}
}

// Position is the rect's top-left corner or the circle's center.
func (a AbsoluteCollider) Position() cp.Vector {
	if a.Kind == ShapeCircle {
		return a.Circle.Center
	}
	return a.Rect.TopLeft
}

func (a AbsoluteCollider) Center() cp.Vector {
	if a.Kind == ShapeCircle {
		return a.Circle.Center
	}
	return a.Rect.Center()
}

func (a AbsoluteCollider) BB() cp.BB {
	if a.Kind == ShapeCircle {
		return a.Circle.BB()
	}
	return a.Rect.BB()
}

func (a AbsoluteCollider) MinX() float64 { return a.BB().L }
func (a AbsoluteCollider) MaxX() float64 { return a.BB().R }
func (a AbsoluteCollider) MinY() float64 { return a.BB().B }
func (a AbsoluteCollider) MaxY() float64 { return a.BB().T }

func (a AbsoluteCollider) Contains(p cp.Vector) bool {
	if a.Kind == ShapeCircle {
		return a.Circle.Contains(p)
	}
	return a.Rect.Contains(p)
}

func (a AbsoluteCollider) Expand(factor float64) AbsoluteCollider {
	if a.Kind == ShapeCircle {
		a.Circle = a.Circle.Expand(factor)
	} else {
		a.Rect = a.Rect.Expand(factor)
	}
	return a
}

func (a AbsoluteCollider) Translate(v cp.Vector) AbsoluteCollider {
	if a.Kind == ShapeCircle {
		a.Circle.Center = a.Circle.Center.Add(v)
	} else {
		a.Rect.TopLeft = a.Rect.TopLeft.Add(v)
	}
	return a
}

// Collides reports whether a and b overlap. Touching edges count.
func (a AbsoluteCollider) Collides(b AbsoluteCollider) bool {
	switch {
	case a.Kind == ShapeRect && b.Kind == ShapeRect:
		return rectsCollide(a.Rect, b.Rect)
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		return circlesCollide(a.Circle, b.Circle)
	case a.Kind == ShapeCircle:
		return circleRectCollide(a.Circle, b.Rect)
	default:
		return circleRectCollide(b.Circle, a.Rect)
	}
}

// Resolution returns the minimum translation that moves a out of b, or the
// zero vector when they do not overlap. a always owns the correction, so
// a.Resolution(b) points opposite to b.Resolution(a).
func (a AbsoluteCollider) Resolution(b AbsoluteCollider) cp.Vector {
	switch {
	case a.Kind == ShapeRect && b.Kind == ShapeRect:
		return rectResolution(a.Rect, b.Rect)
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		return circleResolution(a.Circle, b.Circle)
	case a.Kind == ShapeCircle:
		return circleRectResolution(a.Circle, b.Rect)
	default:
		return circleRectResolution(b.Circle, a.Rect).Neg()
	}
}

func rectsCollide(a, b Rect) bool {
	separated := b.Top() < a.Bottom() ||
		b.Left() > a.Right() ||
		b.Bottom() > a.Top() ||
		b.Right() < a.Left()
	return !separated
}

func rectResolution(a, b Rect) cp.Vector {
	xOverlap := math.Max(math.Min(a.Right(), b.Right())-math.Max(a.Left(), b.Left()), 0)
	yOverlap := math.Max(math.Min(a.Top(), b.Top())-math.Max(a.Bottom(), b.Bottom()), 0)
	if xOverlap == 0 || yOverlap == 0 {
		return cp.Vector{}
	}

	ac, bc := a.Center(), b.Center()
	if xOverlap < yOverlap {
		return cp.Vector{X: xOverlap * common.Sign(ac.X-bc.X)}
	}
	return cp.Vector{Y: yOverlap * common.Sign(ac.Y-bc.Y)}
}

func circlesCollide(a, b Circle) bool {
	r := a.Radius + b.Radius
	return a.Center.DistanceSq(b.Center) <= r*r
}

func circleResolution(a, b Circle) cp.Vector {
	diff := a.Center.Sub(b.Center)
	distSq := diff.LengthSq()
	r := a.Radius + b.Radius
	if distSq >= r*r {
		return cp.Vector{}
	}
	if distSq <= circleEpsilon {
		return cp.Vector{X: r}
	}
	dist := math.Sqrt(distSq)
	return diff.Mult(1 / dist).Mult(r - dist + circleEpsilon)
}

func circleRectCollide(c Circle, r Rect) bool {
	center := r.Center()
	halfW, halfH := r.Size.X*0.5, r.Size.Y*0.5
	dx := math.Abs(c.Center.X - center.X)
	dy := math.Abs(c.Center.Y - center.Y)

	if dx > halfW+c.Radius || dy > halfH+c.Radius {
		return false
	}
	if dx <= halfW || dy <= halfH {
		return true
	}
	cx, cy := dx-halfW, dy-halfH
	return cx*cx+cy*cy <= c.Radius*c.Radius
}

func circleRectResolution(c Circle, r Rect) cp.Vector {
	if !circleRectCollide(c, r) {
		return cp.Vector{}
	}
	closest := cp.Vector{
		X: cp.Clamp(c.Center.X, r.Left(), r.Right()),
		Y: cp.Clamp(c.Center.Y, r.Bottom(), r.Top()),
	}
	diff := c.Center.Sub(closest)
	dist := diff.Length()
	if dist >= c.Radius {
		return cp.Vector{}
	}
	if dist == 0 {
		// center on or inside the rect: leave through the nearest edge
		toLeft := c.Center.X - r.Left()
		toRight := r.Right() - c.Center.X
		toBottom := c.Center.Y - r.Bottom()
		toTop := r.Top() - c.Center.Y
		nearest := math.Min(math.Min(toLeft, toRight), math.Min(toBottom, toTop))
		switch nearest {
		case toLeft:
			return cp.Vector{X: -(toLeft + c.Radius)}
		case toRight:
			return cp.Vector{X: toRight + c.Radius}
		case toBottom:
			return cp.Vector{Y: -(toBottom + c.Radius)}
		default:
			return cp.Vector{Y: toTop + c.Radius}
		}
	}
	return diff.Mult(1 / dist).Mult(c.Radius - dist)
}
