package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SpatialEntry is one indexed object: its key, world-space collider and a
// typed payload.
type SpatialEntry[K comparable, D any] struct {
	Key      K
	Collider AbsoluteCollider
	Data     D
}

type cell struct {
	X, Y int
}

// SpatialHash is a uniform-grid broad phase. An entry is replicated into
// every cell its bounding box touches, so large shapes cost memory but
// queries stay O(1) on average.
type SpatialHash[K comparable, D any] struct {
	cellSize float64
	objects  map[cell][]SpatialEntry[K, D]
	owners   map[K][]cell
}

func NewSpatialHash[K comparable, D any](cellSize float64) *SpatialHash[K, D] {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash[K, D]{
		cellSize: cellSize,
		objects:  make(map[cell][]SpatialEntry[K, D]),
		owners:   make(map[K][]cell),
	}
}

func NewSpatialHashWith[K comparable, D any](cellSize float64, entries []SpatialEntry[K, D]) *SpatialHash[K, D] {
	h := NewSpatialHash[K, D](cellSize)
	for _, e := range entries {
		h.Insert(e)
	}
	return h
}

func (h *SpatialHash[K, D]) CellSize() float64 {
	return h.cellSize
}

func (h *SpatialHash[K, D]) hash(p cp.Vector) cell {
	return cell{
		X: int(math.Floor(p.X / h.cellSize)),
		Y: int(math.Floor(p.Y / h.cellSize)),
	}
}

func (h *SpatialHash[K, D]) footprint(c AbsoluteCollider) (cell, cell) {
	bb := c.BB()
	return h.hash(cp.Vector{X: bb.L, Y: bb.B}), h.hash(cp.Vector{X: bb.R, Y: bb.T})
}

// Insert adds e to every cell covered by its collider's bounding box.
func (h *SpatialHash[K, D]) Insert(e SpatialEntry[K, D]) {
	lo, hi := h.footprint(e.Collider)
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			c := cell{X: x, Y: y}
			h.objects[c] = append(h.objects[c], e)
			h.owners[e.Key] = append(h.owners[e.Key], c)
		}
	}
}

// Remove deletes every entry stored under key. Other entries sharing the
// same cells are untouched.
func (h *SpatialHash[K, D]) Remove(key K) bool {
	cells, ok := h.owners[key]
	if !ok {
		return false
	}
	for _, c := range cells {
		bucket := h.objects[c]
		kept := bucket[:0]
		for _, e := range bucket {
			if e.Key != key {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(h.objects, c)
			continue
		}
		clear(bucket[len(kept):])
		h.objects[c] = kept
	}
	delete(h.owners, key)
	return true
}

// Update replaces the entry stored under e.Key, re-bucketing it.
func (h *SpatialHash[K, D]) Update(e SpatialEntry[K, D]) {
	h.Remove(e.Key)
	h.Insert(e)
}

func (h *SpatialHash[K, D]) Contains(key K) bool {
	_, ok := h.owners[key]
	return ok
}

func (h *SpatialHash[K, D]) Clear() {
	clear(h.objects)
	clear(h.owners)
}

// Len is the number of distinct keys.
func (h *SpatialHash[K, D]) Len() int {
	return len(h.owners)
}

// CellCount is the number of non-empty cells.
func (h *SpatialHash[K, D]) CellCount() int {
	return len(h.objects)
}

// CellsOf returns how many cells hold key.
func (h *SpatialHash[K, D]) CellsOf(key K) int {
	return len(h.owners[key])
}

// ObjectsInCell returns the bucket for the cell containing p.
func (h *SpatialHash[K, D]) ObjectsInCell(p cp.Vector) []SpatialEntry[K, D] {
	return h.objects[h.hash(p)]
}

// NearbyObjects returns the entries of the 3x3 block of cells around p, once
// per key. This is a candidate list; callers still run exact shape tests.
func (h *SpatialHash[K, D]) NearbyObjects(p cp.Vector) []SpatialEntry[K, D] {
	c := h.hash(p)
	return h.collect(cell{X: c.X - 1, Y: c.Y - 1}, cell{X: c.X + 1, Y: c.Y + 1})
}

// Query returns candidates for a whole collider: every cell of its footprint
// grown by one cell in each direction.
func (h *SpatialHash[K, D]) Query(c AbsoluteCollider) []SpatialEntry[K, D] {
	lo, hi := h.footprint(c)
	return h.collect(cell{X: lo.X - 1, Y: lo.Y - 1}, cell{X: hi.X + 1, Y: hi.Y + 1})
}

func (h *SpatialHash[K, D]) collect(lo, hi cell) []SpatialEntry[K, D] {
	var out []SpatialEntry[K, D]
	seen := make(map[K]struct{})
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			for _, e := range h.objects[cell{X: x, Y: y}] {
				if _, dup := seen[e.Key]; dup {
					continue
				}
				seen[e.Key] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}

// RayCast samples `samples` points on the segment from..to (excluding to)
// and returns false if any of them lies inside an indexed collider. The
// answer is approximate: gaps narrower than the sample spacing can be missed.
func (h *SpatialHash[K, D]) RayCast(from, to cp.Vector, samples int) bool {
	for i := 0; i < samples; i++ {
		p := from.Lerp(to, float64(i)/float64(samples))
		for _, e := range h.NearbyObjects(p) {
			if e.Collider.Contains(p) {
				return false
			}
		}
	}
	return true
}
