package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue is a simple FIFO queue. Events pushed during a tick stay
// readable until the queue is cleared at the start of the next tick.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Items returns the queued events without consuming them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Clear drops all queued events.
func (q *EventQueue) Clear() {
	if q == nil {
		return
	}
	q.items = nil
}

// EventsOf returns the payloads of type T currently queued, in push order.
func EventsOf[T any](q *EventQueue) []T {
	if q == nil {
		return nil
	}
	var out []T
	for _, evt := range q.items {
		if v, ok := evt.Data.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
