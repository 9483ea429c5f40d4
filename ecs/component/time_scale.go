package component

// TimeScale slows or speeds up integration. On the ClockTag entity it is the
// global scale; on any other entity it overrides the global one.
type TimeScale struct {
	Scale float64
}

var TimeScaleComponent = NewComponent[TimeScale]()

// TimeScaleTween moves the TimeScale on the same entity from From to To over
// Ticks updates, then removes itself.
type TimeScaleTween struct {
	From    float64
	To      float64
	Ticks   int
	Elapsed int
}

var TimeScaleTweenComponent = NewComponent[TimeScaleTween]()
