package levels

import "testing"

func TestLoadEmbeddedLevel(t *testing.T) {
	for _, name := range []string{"demo", "demo.json", "levels/demo.json"} {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if lvl.Width != 24 || lvl.Height != 12 {
				t.Fatalf("unexpected size %dx%d", lvl.Width, lvl.Height)
			}
			if !lvl.Meta(0).Physics || lvl.Meta(0).Layer != "world" {
				t.Fatalf("unexpected layer meta %+v", lvl.Meta(0))
			}
			if len(lvl.Entities) == 0 {
				t.Fatalf("expected entity spawns")
			}
		})
	}
}

func TestParseRejectsBadLevels(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad_json", `{`},
		{"zero_size", `{"width":0,"height":2}`},
		{"short_layer", `{"width":2,"height":2,"layers":[[1,1,1]]}`},
		{"extra_meta", `{"width":1,"height":1,"layers":[[1]],"layer_meta":[{},{}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
