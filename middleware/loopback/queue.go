package loopback

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/eapache/queue"
)

// ErrHandleFinalized is returned when a finalized handle is used or
// finalized again.
var ErrHandleFinalized = errors.New("event handle already finalized")

// ErrNoOccurrence is returned when a drain finds no pending occurrence.
var ErrNoOccurrence = errors.New("no occurrence pending")

// An occurrenceQueue is the loopback event handle: a queue of pending
// occurrences drained one at a time. It backs entity events as well as the
// transport's request and completion deliveries.
type occurrenceQueue struct {
	mu       sync.Mutex
	pending  *queue.Queue
	finished bool
}

func newOccurrenceQueue() *occurrenceQueue {
	return &occurrenceQueue{
		pending: queue.New(),
	}
}

func (q *occurrenceQueue) push(item any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finished {
		return ErrHandleFinalized
	}

	q.pending.Add(item)

	return nil
}

func (q *occurrenceQueue) pendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finished {
		return 0
	}

	return q.pending.Length()
}

// TakeInto drains exactly one pending occurrence into dst, which must be a
// pointer to the occurrence's type.
func (q *occurrenceQueue) TakeInto(dst any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finished {
		return ErrHandleFinalized
	}

	if q.pending.Length() == 0 {
		return ErrNoOccurrence
	}

	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("occurrence destination %T is not a pointer", dst)
	}

	item := q.pending.Peek()
	iv := reflect.ValueOf(item)
	if !iv.Type().AssignableTo(dv.Elem().Type()) {
		// The occurrence stays queued; the caller may drain it with the
		// right record type on a later cycle.
		return fmt.Errorf("occurrence %T does not fit destination %T",
			item, dst)
	}

	q.pending.Remove()
	dv.Elem().Set(iv)

	return nil
}

// Fini tears the handle down. Finalizing twice fails.
func (q *occurrenceQueue) Fini() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finished {
		return ErrHandleFinalized
	}

	q.finished = true
	q.pending = nil

	return nil
}
