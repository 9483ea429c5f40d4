package physics

import (
	"errors"
	"slices"
	"testing"
)

func TestLayerSet(t *testing.T) {
	s := NewLayerSet(0, 3)
	if !s.Has(0) || !s.Has(3) || s.Has(1) {
		t.Fatalf("unexpected membership: %b", s)
	}
	s = s.With(5).Without(0)
	if got := s.Layers(); !slices.Equal(got, []Layer{3, 5}) {
		t.Fatalf("Layers()=%v", got)
	}
	if s.Len() != 2 || s.Empty() {
		t.Fatalf("Len()=%d Empty()=%v", s.Len(), s.Empty())
	}
	if !LayerSet(0).Empty() {
		t.Fatalf("zero set should be empty")
	}
}

func TestLayerRegistry(t *testing.T) {
	r := NewLayerRegistry()
	world, err := r.Register("World", StageCollision|StageGrounded|StageBrushing)
	if err != nil {
		t.Fatalf("register world: %v", err)
	}
	hazard, err := r.Register("hazard", StageTrigger)
	if err != nil {
		t.Fatalf("register hazard: %v", err)
	}
	if world == hazard {
		t.Fatalf("layers must be distinct")
	}

	again, err := r.Register("world", StageTrigger)
	if err != nil || again != world {
		t.Fatalf("re-register should return the same layer, got %v %v", again, err)
	}

	tests := []struct {
		stage Stage
		want  []Layer
	}{
		{StageCollision, []Layer{world}},
		{StageGrounded, []Layer{world}},
		{StageTrigger, []Layer{world, hazard}},
	}
	for _, tc := range tests {
		if got := r.WithStage(tc.stage); !slices.Equal(got, tc.want) {
			t.Fatalf("WithStage(%d)=%v want %v", tc.stage, got, tc.want)
		}
	}

	set, err := r.Set("WORLD", "hazard")
	if err != nil || set != NewLayerSet(world, hazard) {
		t.Fatalf("Set()=%b, %v", set, err)
	}
	if _, err := r.Layer("water"); !errors.Is(err, ErrUnknownLayer) {
		t.Fatalf("expected ErrUnknownLayer, got %v", err)
	}
	if r.Name(hazard) != "hazard" {
		t.Fatalf("Name()=%q", r.Name(hazard))
	}
	if _, err := r.Register("  ", StageCollision); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestMustLayerPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewLayerRegistry().MustLayer("nope")
}

func TestLayerRegistryCapacity(t *testing.T) {
	r := NewLayerRegistry()
	for i := 0; i < MaxLayers; i++ {
		if _, err := r.Register(string(rune('a'+i%26))+string(rune('a'+i/26)), StageCollision); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	if _, err := r.Register("overflow", StageCollision); err == nil {
		t.Fatalf("expected capacity error")
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{0, "none"},
		{StageTrigger, "trigger"},
		{StageCollision | StageBrushing, "collision|brushing"},
	}
	for _, tc := range tests {
		if got := tc.stage.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", uint8(tc.stage), got, tc.want)
		}
	}
}
