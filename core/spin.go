package core

import (
	"errors"
	"time"
)

// ErrTimeout is returned when a bounded wait elapses before the awaited
// result is ready.
var ErrTimeout = errors.New("wait timed out")

// ErrCancelled is returned when the step function signals stop before the
// awaited result is ready.
var ErrCancelled = errors.New("wait cancelled")

// NoTimeout makes WaitUntil and SpinUntilComplete wait without a deadline.
const NoTimeout = time.Duration(-1)

// A StepFunc performs one iteration of servicing the event-driven runtime,
// processing any ready waitables and completions. It returns false when the
// loop should stop, for example because shutdown was requested.
type StepFunc func() bool

// WaitUntil drives step repeatedly until ready returns true, the timeout
// elapses, or step signals stop. This is a cooperative model: there is no
// background thread making progress, so readiness depends entirely on the
// calling thread pumping step. Unrelated event sources registered on the
// same runtime may be serviced incidentally while waiting.
//
// A non-negative timeout bounds the wait; a timeout of zero that finds ready
// false fails immediately without invoking step.
func WaitUntil(ready func() bool, step StepFunc, timeout time.Duration) error {
	if ready() {
		return nil
	}

	var deadline time.Time
	bounded := timeout >= 0
	if bounded {
		deadline = time.Now().Add(timeout)
	}

	for {
		if bounded && !time.Now().Before(deadline) {
			return ErrTimeout
		}

		if !step() {
			return ErrCancelled
		}

		if ready() {
			return nil
		}
	}
}

// SpinUntilComplete drives step until the future resolves, then returns its
// outcome. It fails with ErrTimeout or ErrCancelled without a result when
// the wait is abandoned; the future may still resolve later, unread.
func SpinUntilComplete[T any](
	f *Future[T],
	step StepFunc,
	timeout time.Duration,
) (T, error) {
	if err := WaitUntil(f.Ready, step, timeout); err != nil {
		var zero T
		return zero, err
	}

	value, err, _ := f.Peek()

	return value, err
}
