package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// DiskDir is checked before the embedded levels so edited files win.
var DiskDir = "levels"

type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta describes a tile layer. Physics layers become static colliders
// on the named physics layer.
type LayerMeta struct {
	Physics bool   `json:"physics"`
	Layer   string `json:"layer,omitempty"`
}

// Entity is a prefab spawn at a tile coordinate; row 0 is the top row.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level: invalid size %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("level: layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	if len(l.LayerMeta) > len(l.Layers) {
		return fmt.Errorf("level: %d layer_meta entries for %d layers", len(l.LayerMeta), len(l.Layers))
	}
	return nil
}

// Meta returns the metadata of layer i, or the zero value.
func (l *Level) Meta(i int) LayerMeta {
	if i < 0 || i >= len(l.LayerMeta) {
		return LayerMeta{}
	}
	return l.LayerMeta[i]
}

func LoadLevelFromFS(name string) (*Level, error) {
	name = normalizeName(name)
	data, err := os.ReadFile(filepath.Join(DiskDir, name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
		if err != nil {
			return nil, fmt.Errorf("read level: %w", err)
		}
	}
	return Parse(data)
}

func normalizeName(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}
