package pubsub

import (
	"errors"
	"fmt"
	"log"
)

// ErrNilOwner is returned when a loan is requested without an owning
// publisher.
var ErrNilOwner = errors.New("publisher is nil")

// ErrAllocation is returned when neither the middleware pool nor the
// fallback allocator can supply message memory.
var ErrAllocation = errors.New("unable to allocate message memory")

// A LoanedMessage owns the memory of one message instance, sourced from the
// middleware pool when the owning publisher supports loaning and from the
// fallback allocator otherwise. The memory is valid for exactly as long as
// this instance holds it; Release returns it through whichever path acquired
// it, exactly once.
//
// A LoanedMessage has exactly one owner at a time. Ownership transfers with
// Move; sharing an instance across threads without a hand-off is not safe.
type LoanedMessage[T any] struct {
	pub      *Publisher
	msg      *T
	fromPool bool
	alloc    Allocator[T]
}

// Loan acquires memory for one message instance owned by pub. When the
// middleware can loan messages the pool supplies the memory; otherwise alloc
// does, and a one-time advisory is logged. The contained value is zeroed in
// place.
func Loan[T any](pub *Publisher, alloc Allocator[T]) (*LoanedMessage[T], error) {
	if pub == nil {
		return nil, ErrNilOwner
	}

	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}

	if pub.Handle().CanLoanMessages() {
		return loanFromPool(pub, alloc)
	}

	pub.warnCannotLoan()

	msg := alloc.Allocate()
	if msg == nil {
		return nil, ErrAllocation
	}

	return &LoanedMessage[T]{
		pub:   pub,
		msg:   msg,
		alloc: alloc,
	}, nil
}

func loanFromPool[T any](
	pub *Publisher,
	alloc Allocator[T],
) (*LoanedMessage[T], error) {
	raw, err := pub.Handle().LoanMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	msg, ok := raw.(*T)
	if !ok {
		returnErr := pub.Handle().ReturnLoanedMessage(raw)
		if returnErr != nil {
			log.Printf("could not return mistyped loan: %v", returnErr)
		}

		return nil, fmt.Errorf("%w: pool returned %T", ErrAllocation, raw)
	}

	var zero T
	*msg = zero

	return &LoanedMessage[T]{
		pub:      pub,
		msg:      msg,
		fromPool: true,
		alloc:    alloc,
	}, nil
}

// IsValid reports whether the loan currently holds a live message.
func (m *LoanedMessage[T]) IsValid() bool {
	return m != nil && m.msg != nil
}

// Get returns the contained message for mutation. A caller that copies the
// value out owns that copy's lifetime; the loan itself remains exclusively
// owned here.
func (m *LoanedMessage[T]) Get() *T {
	return m.msg
}

// Move transfers ownership to a new instance and invalidates the source.
// Releasing the drained source afterwards performs no action.
func (m *LoanedMessage[T]) Move() *LoanedMessage[T] {
	moved := &LoanedMessage[T]{
		pub:      m.pub,
		msg:      m.msg,
		fromPool: m.fromPool,
		alloc:    m.alloc,
	}

	m.msg = nil

	return moved
}

// Release returns the message memory through the path that acquired it:
// back to the middleware pool for pool loans, through the allocator
// otherwise. Exactly one release path runs per loan; further calls do
// nothing. A failed pool return is logged and swallowed.
func (m *LoanedMessage[T]) Release() {
	if m == nil || m.msg == nil {
		return
	}

	msg := m.msg
	m.msg = nil

	if m.fromPool {
		if err := m.pub.Handle().ReturnLoanedMessage(msg); err != nil {
			log.Printf("could not return loaned message: %v", err)
		}

		return
	}

	m.alloc.Deallocate(msg)
}
