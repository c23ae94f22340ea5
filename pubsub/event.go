// Package pubsub provides the entity-side runtime pieces: publishers and
// subscriptions as thin wrappers over their middleware handles, the event
// handlers that surface out-of-band middleware events as waitables, and the
// loaned message buffers used for zero-copy publishing.
package pubsub

import (
	"log"

	"github.com/j-rivero/rclgo/middleware"
)

// An EventHandler wraps one native event handle and executes a typed
// callback whenever the handle is found ready in a wait cycle. The info
// record type is the callback's argument type, so one handler type serves
// every event kind without a shared base record.
type EventHandler[T any] struct {
	handle   middleware.EventHandle
	index    int
	callback func(T)
}

// NewEventHandler creates an event handle of the given kind on src and
// binds callback to it. A handle that cannot be created aborts construction.
func NewEventHandler[T any](
	src middleware.EventSource,
	kind middleware.EventKind,
	callback func(T),
) (*EventHandler[T], error) {
	handle, err := src.NewEventHandle(kind)
	if err != nil {
		return nil, middleware.NewCallError("create event handle", err)
	}

	return &EventHandler[T]{
		handle:   handle,
		index:    -1,
		callback: callback,
	}, nil
}

// NumReadyEvents returns 1: each handler represents exactly one logical
// event source, regardless of how many occurrences are queued underneath.
func (h *EventHandler[T]) NumReadyEvents() int {
	return 1
}

// AddToWaitSet registers the handler's native handle. The assigned slot is
// remembered for readiness checks.
func (h *EventHandler[T]) AddToWaitSet(ws *middleware.WaitSet) {
	h.index = ws.Add(h.handle)
}

// IsReady reports whether the wait set's slot at this handler's registered
// index holds this handler's own handle.
func (h *EventHandler[T]) IsReady(ws *middleware.WaitSet) bool {
	if h.index < 0 {
		return false
	}

	return ws.ReadyAt(h.index) == h.handle
}

// Execute drains exactly one pending occurrence into a typed info record and
// invokes the callback with it. A failed drain is logged and skips the
// callback for this cycle; a later wait cycle may yield the event again.
func (h *EventHandler[T]) Execute() {
	var info T

	if err := h.handle.TakeInto(&info); err != nil {
		log.Printf("could not take event info: %v", err)
		return
	}

	h.callback(info)
}

// Close finalizes the native handle. A teardown failure is logged and
// returned, but is not fatal.
func (h *EventHandler[T]) Close() error {
	if err := h.handle.Fini(); err != nil {
		log.Printf("error in destruction of event handle: %v", err)
		return err
	}

	return nil
}
