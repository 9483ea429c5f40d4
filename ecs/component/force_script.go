package component

// ForceScript names a tengo script run every tick to push a force into the
// entity's Acceleration.
type ForceScript struct {
	Path string
}

var ForceScriptComponent = NewComponent[ForceScript]()
