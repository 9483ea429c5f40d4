package physics

import (
	"errors"
	"testing"
)

func TestGrounded(t *testing.T) {
	floor := AbsoluteRect(vec(0, 0), vec(100, 16))
	tests := []struct {
		name string
		body AbsoluteCollider
		vy   float64
		want bool
	}{
		{"resting", AbsoluteRect(vec(10, 16), vec(8, 16)), 0, true},
		{"within_epsilon", AbsoluteRect(vec(10, 16.05), vec(8, 16)), 0, true},
		{"hovering", AbsoluteRect(vec(10, 17), vec(8, 16)), 0, false},
		{"still_falling", AbsoluteRect(vec(10, 16), vec(8, 16)), -1, false},
		{"moving_up", AbsoluteRect(vec(10, 16), vec(8, 16)), 1, true},
		{"beside_floor", AbsoluteRect(vec(100, 16), vec(8, 16)), 0, false},
		{"overhanging_edge", AbsoluteRect(vec(96, 16), vec(8, 16)), 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Grounded(tc.body, floor, vec(0, tc.vy), DefaultContactEpsilon)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Fatalf("Grounded=%v want %v", got, tc.want)
			}
		})
	}
}

func TestBrushing(t *testing.T) {
	wall := AbsoluteRect(vec(50, 100), vec(16, 100))
	tests := []struct {
		name        string
		body        AbsoluteCollider
		vx          float64
		left, right bool
	}{
		{"touching_left_side_moving_in", AbsoluteRect(vec(42, 40), vec(8, 16)), 1, false, true},
		{"touching_left_side_moving_away", AbsoluteRect(vec(42, 40), vec(8, 16)), -1, false, false},
		{"touching_right_side_still", AbsoluteRect(vec(66, 40), vec(8, 16)), 0, true, false},
		{"touching_right_side_moving_away", AbsoluteRect(vec(66, 40), vec(8, 16)), 2, false, false},
		{"above_wall", AbsoluteRect(vec(66, 130), vec(8, 16)), 0, false, false},
		{"gap", AbsoluteRect(vec(70, 40), vec(8, 16)), 0, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			left, right, err := Brushing(tc.body, wall, vec(tc.vx, 0), DefaultContactEpsilon)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if left != tc.left || right != tc.right {
				t.Fatalf("Brushing=(%v,%v) want (%v,%v)", left, right, tc.left, tc.right)
			}
		})
	}
}

func TestContactUnsupportedPair(t *testing.T) {
	floor := AbsoluteRect(vec(0, 0), vec(100, 16))
	ball := AbsoluteCircle(vec(10, 20), 4)
	if _, err := Grounded(ball, floor, vec(0, 0), DefaultContactEpsilon); !errors.Is(err, ErrUnsupportedShapePair) {
		t.Fatalf("expected ErrUnsupportedShapePair, got %v", err)
	}
	if _, _, err := Brushing(floor, ball, vec(0, 0), DefaultContactEpsilon); !errors.Is(err, ErrUnsupportedShapePair) {
		t.Fatalf("expected ErrUnsupportedShapePair, got %v", err)
	}
}
