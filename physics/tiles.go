package physics

import "github.com/jakecoffman/cp"

// MergeTiles greedily merges contiguous solid tiles of a row-major grid into
// rectangles (widest run first, then grown downward). Row 0 is the top row;
// the grid's bottom-left corner sits at the world origin.
func MergeTiles(tiles []int, width, height int, tileSize float64, solid func(int) bool) []Rect {
	if width <= 0 || height <= 0 || len(tiles) < width*height {
		return nil
	}
	if solid == nil {
		solid = func(v int) bool { return v > 0 }
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	open := func(x, y int) bool {
		idx := index(x, y)
		return !visited[idx] && solid(tiles[idx])
	}

	var out []Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}

			w := 1
			for x+w < width && open(x+w, y) {
				w++
			}

			h := 1
		grow:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					if !open(xi, y+h) {
						break grow
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			out = append(out, Rect{
				TopLeft: cp.Vector{X: float64(x) * tileSize, Y: float64(height-y) * tileSize},
				Size:    cp.Vector{X: float64(w) * tileSize, Y: float64(h) * tileSize},
			})
		}
	}
	return out
}
