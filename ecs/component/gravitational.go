package component

// Gravitational bodies receive the world gravity force while airborne.
// Scale multiplies gravity; zero is treated as 1.
type Gravitational struct {
	Scale float64
}

func (g Gravitational) Factor() float64 {
	if g.Scale == 0 {
		return 1
	}
	return g.Scale
}

var GravitationalComponent = NewComponent[Gravitational]()
