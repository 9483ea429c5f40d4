package component

// LevelBounds stores the world-space size of a loaded level. The level's
// bottom-left corner is the world origin.
type LevelBounds struct {
	Width  float64
	Height float64
}

func (b LevelBounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
