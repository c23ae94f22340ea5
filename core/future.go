package core

import (
	"log"
	"sync"
)

// A Future is a single-writer many-reader result cell. The writing side
// resolves it exactly once, from whatever context the completion runs on;
// any number of readers may then read the same outcome any number of times.
// A future that is never resolved simply stays pending; dropping it unread
// is harmless.
type Future[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    T
	err      error
}

// NewFuture creates a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Resolve fulfills the future with a value. Resolving a future twice is a
// programming error.
func (f *Future[T]) Resolve(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolved {
		log.Panic("future resolved twice")
	}

	f.value = value
	f.resolved = true
	close(f.done)
}

// Fail fulfills the future with an error.
func (f *Future[T]) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolved {
		log.Panic("future resolved twice")
	}

	f.err = err
	f.resolved = true
	close(f.done)
}

// Ready reports whether the future has been resolved.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Peek returns the outcome without blocking. The third return value reports
// whether the future was resolved.
func (f *Future[T]) Peek() (T, error, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.value, f.err, f.resolved
}

// Get blocks until the future resolves and returns its outcome. Get must not
// be called from the thread that drives the event loop servicing this
// future's completion, as no progress can be made there while blocked; use
// SpinUntilComplete from the loop thread instead.
func (f *Future[T]) Get() (T, error) {
	<-f.done

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.value, f.err
}
