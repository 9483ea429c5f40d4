package common

// TileSize is the edge length of one level tile in world units.
const TileSize = 16.0

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1 for negative values and 1 otherwise, so a zero
// displacement still picks a direction.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
