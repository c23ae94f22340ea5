// Package core provides the concurrency glue of the client runtime: the
// waitable abstraction multiplexed into one wait operation, the promise/
// future cell used to correlate asynchronous calls, and the cooperative
// blocking bridge that drives an event loop until one future resolves.
package core

import "github.com/j-rivero/rclgo/middleware"

// A Waitable is one pollable unit representing a logical event source. Many
// waitables are registered into one wait set and serviced by a single loop.
type Waitable interface {
	// NumReadyEvents returns how many logical events this waitable
	// contributes to one wait cycle.
	NumReadyEvents() int

	// AddToWaitSet registers the waitable's native handle. The wait set
	// assigns the slot index at registration time.
	AddToWaitSet(ws *middleware.WaitSet)

	// IsReady reports whether the waitable's own slot was found ready in
	// the last wait. It must never read another waitable's slot.
	IsReady(ws *middleware.WaitSet) bool

	// Execute services one ready cycle of the waitable.
	Execute()
}

// Named is implemented by entities that can be addressed by name, for
// monitoring and tracing.
type Named interface {
	Name() string
}
