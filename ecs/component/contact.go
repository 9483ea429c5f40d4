package component

// Contact markers are present iff their condition held this tick.

type Grounded struct{}

var GroundedComponent = NewComponent[Grounded]()

type BrushingLeft struct{}

var BrushingLeftComponent = NewComponent[BrushingLeft]()

type BrushingRight struct{}

var BrushingRightComponent = NewComponent[BrushingRight]()
