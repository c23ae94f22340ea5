package middleware

import "time"

// A WaitSet is the slot array that event handles register into. The handle
// at registered slot i appears in the ready slot i after a wait iff the
// middleware found it ready. Slots are assigned at registration time and
// never move.
type WaitSet struct {
	handles []EventHandle
	ready   []EventHandle
}

// NewWaitSet creates an empty wait set.
func NewWaitSet() *WaitSet {
	return &WaitSet{}
}

// Add registers a handle and returns its slot index.
func (ws *WaitSet) Add(h EventHandle) int {
	ws.handles = append(ws.handles, h)
	ws.ready = append(ws.ready, nil)

	return len(ws.handles) - 1
}

// Len returns the number of registered handles.
func (ws *WaitSet) Len() int {
	return len(ws.handles)
}

// Handle returns the handle registered at slot i.
func (ws *WaitSet) Handle(i int) EventHandle {
	return ws.handles[i]
}

// ReadyAt returns the handle found ready at slot i during the last wait, or
// nil if the slot was not ready.
func (ws *WaitSet) ReadyAt(i int) EventHandle {
	return ws.ready[i]
}

// MarkReady records that the handle at slot i is ready. Called by the
// middleware during a wait.
func (ws *WaitSet) MarkReady(i int) {
	ws.ready[i] = ws.handles[i]
}

// ClearReady resets all ready slots before a new wait.
func (ws *WaitSet) ClearReady() {
	for i := range ws.ready {
		ws.ready[i] = nil
	}
}

// A Waiter performs one wait operation over a wait set, marking the ready
// slot of every handle with a pending occurrence. A zero timeout polls.
type Waiter interface {
	Wait(ws *WaitSet, timeout time.Duration) error
}
