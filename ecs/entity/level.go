package entity

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spire/common"
	"github.com/milk9111/spire/ecs"
	"github.com/milk9111/spire/ecs/component"
	"github.com/milk9111/spire/levels"
	"github.com/milk9111/spire/physics"
)

// LoadLevelToWorld creates the level entity, one child per physics tile
// layer owning that layer's SpatialIndex, merged static colliders parented
// to those children, and the level's prefab spawns. It returns the level
// entity.
func LoadLevelToWorld(w *ecs.World, name string, lvl *levels.Level, reg *physics.LayerRegistry, cellSize float64) (ecs.Entity, error) {
	if w == nil || lvl == nil {
		return 0, fmt.Errorf("load level: world and level are required")
	}
	if reg == nil {
		return 0, ErrNoRegistry
	}
	tileSize := float64(common.TileSize)

	level := ecs.CreateEntity(w)
	if err := ecs.Add(w, level, component.LevelTagComponent.Kind(), &component.LevelTag{Name: name}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, level, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, level, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(lvl.Width) * tileSize,
		Height: float64(lvl.Height) * tileSize,
	}); err != nil {
		return 0, err
	}

	for i, tiles := range lvl.Layers {
		meta := lvl.Meta(i)
		if !meta.Physics {
			continue
		}
		layerName := meta.Layer
		if layerName == "" {
			layerName = "world"
		}
		layer, err := reg.Layer(layerName)
		if err != nil {
			return 0, fmt.Errorf("load level: tile layer %d: %w", i, err)
		}
		if err := addLayerColliders(w, level, tiles, lvl.Width, lvl.Height, tileSize, layer, cellSize); err != nil {
			return 0, fmt.Errorf("load level: tile layer %d: %w", i, err)
		}
	}

	for _, spawn := range lvl.Entities {
		if err := spawnLevelEntity(w, lvl, spawn, reg, tileSize); err != nil {
			return 0, err
		}
	}

	return level, nil
}

func addLayerColliders(w *ecs.World, level ecs.Entity, tiles []int, width, height int, tileSize float64, layer physics.Layer, cellSize float64) error {
	owner := ecs.CreateEntity(w)
	if err := ecs.Add(w, owner, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		return err
	}
	if err := ecs.Add(w, owner, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(level)}); err != nil {
		return err
	}
	if err := ecs.Add(w, owner, component.SpatialIndexComponent.Kind(), component.NewSpatialIndex(layer, cellSize)); err != nil {
		return err
	}

	for _, r := range physics.MergeTiles(tiles, width, height, tileSize, nil) {
		e := ecs.CreateEntity(w)
		// The collider sits at the entity origin; the transform carries the
		// rect's top-left corner.
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: r.TopLeft.X, Y: r.TopLeft.Y}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{X: r.TopLeft.X, Y: r.TopLeft.Y}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(owner)}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
			Collider: physics.NewRectCollider(cp.Vector{}, r.Size),
		}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.StaticBodyComponent.Kind(), &component.StaticBody{}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.LayerMemberComponent.Kind(), &component.LayerMember{Layers: physics.NewLayerSet(layer)}); err != nil {
			return err
		}
	}
	return nil
}

// spawnLevelEntity builds <type>.yaml with its origin at the bottom-left of
// the spawn tile.
func spawnLevelEntity(w *ecs.World, lvl *levels.Level, spawn levels.Entity, reg *physics.LayerRegistry, tileSize float64) error {
	typ := strings.ToLower(strings.TrimSpace(spawn.Type))
	if typ == "" {
		return fmt.Errorf("load level: entity at (%d,%d) has no type", spawn.X, spawn.Y)
	}
	e, err := BuildEntity(w, typ+".yaml", reg)
	if err != nil {
		return fmt.Errorf("load level: spawn %s: %w", typ, err)
	}

	if ecs.Has(w, e, component.TransformComponent.Kind()) {
		x := float64(spawn.X) * tileSize
		y := float64(lvl.Height-spawn.Y-1) * tileSize
		if err := SetEntityTransform(w, e, x, y); err != nil {
			return err
		}
	}

	if frames, ok := intProp(spawn.Props, "ttl"); ok && frames > 0 {
		if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames}); err != nil {
			return err
		}
	}
	return nil
}

// intProp reads a numeric prop; encoding/json decodes numbers as float64.
func intProp(props map[string]interface{}, key string) (int, bool) {
	switch v := props[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
