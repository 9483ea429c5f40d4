package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// ClockTag marks the entity holding the global TimeScale.
type ClockTag struct{}

var ClockTagComponent = NewComponent[ClockTag]()

type LevelTag struct {
	Name string
}

var LevelTagComponent = NewComponent[LevelTag]()
