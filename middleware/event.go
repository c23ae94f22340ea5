// Package middleware defines the surface of the low-level pub/sub middleware
// that the client runtime is built on. The runtime treats everything behind
// these interfaces as a black box: event detection, wire serialization,
// discovery, and transport are the middleware's job.
package middleware

// EventKind enumerates the out-of-band event types an entity can report.
type EventKind int

const (
	// EventDeadlineMissed fires when an entity misses its deadline period.
	EventDeadlineMissed EventKind = iota

	// EventLivelinessChanged fires when the liveliness of a matched remote
	// entity changes.
	EventLivelinessChanged

	// EventLivelinessLost fires when the local entity fails to assert its
	// own liveliness in time.
	EventLivelinessLost
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDeadlineMissed:
		return "DeadlineMissed"
	case EventLivelinessChanged:
		return "LivelinessChanged"
	case EventLivelinessLost:
		return "LivelinessLost"
	default:
		return "Unknown"
	}
}

// DeadlineMissedInfo describes one deadline-missed occurrence.
type DeadlineMissedInfo struct {
	TotalCount       int
	TotalCountChange int
}

// LivelinessChangedInfo describes one liveliness-changed occurrence.
type LivelinessChangedInfo struct {
	AliveCount          int
	NotAliveCount       int
	AliveCountChange    int
	NotAliveCountChange int
}

// LivelinessLostInfo describes one liveliness-lost occurrence.
type LivelinessLostInfo struct {
	TotalCount       int
	TotalCountChange int
}

// An EventHandle is one native event source bound to an entity and an event
// kind. The handle is valid from creation until Fini.
type EventHandle interface {
	// TakeInto drains exactly one pending occurrence into dst. dst must be
	// a pointer to the info record type of the handle's event kind.
	TakeInto(dst any) error

	// Fini tears the handle down. After Fini the handle must not be used.
	Fini() error
}

// An EventSource can create event handles bound to itself.
type EventSource interface {
	NewEventHandle(kind EventKind) (EventHandle, error)
}
