package component

// TTL destroys its entity after the given number of ticks.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
