package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultContactEpsilon is how close two edges must be to count as touching.
const DefaultContactEpsilon = 0.1

// Grounded reports whether body rests on top of surface: its bottom edge is
// within eps of the surface's top edge, the horizontal spans intersect and
// the body is not moving down.
//
// Only rect pairs are classified; anything else returns ErrUnsupportedShapePair.
func Grounded(body, surface AbsoluteCollider, vel cp.Vector, eps float64) (bool, error) {
	if body.Kind != ShapeRect || surface.Kind != ShapeRect {
		return false, ErrUnsupportedShapePair
	}
	a, b := body.Rect, surface.Rect
	onTop := math.Abs(a.Bottom()-b.Top()) < eps
	spans := a.Left() < b.Right() && a.Right() > b.Left()
	return onTop && spans && vel.Y >= 0, nil
}

// Brushing reports whether body is pressed against the right side of wall
// (left) or its left side (right). The vertical spans must intersect and the
// body must not be moving away from the wall.
func Brushing(body, wall AbsoluteCollider, vel cp.Vector, eps float64) (left, right bool, err error) {
	if body.Kind != ShapeRect || wall.Kind != ShapeRect {
		return false, false, ErrUnsupportedShapePair
	}
	a, b := body.Rect, wall.Rect
	if !(a.Bottom() < b.Top() && a.Top() > b.Bottom()) {
		return false, false, nil
	}
	left = math.Abs(a.Left()-b.Right()) < eps && vel.X <= 0
	right = math.Abs(a.Right()-b.Left()) < eps && vel.X >= 0
	return left, right, nil
}
