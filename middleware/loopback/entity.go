package loopback

import (
	"errors"
	"sync"

	"github.com/j-rivero/rclgo/middleware"
)

// ErrPoolExhausted is returned when a loan is requested from an empty pool.
var ErrPoolExhausted = errors.New("message pool exhausted")

// ErrNotLoaned is returned when a message that was never loaned is given
// back to the pool.
var ErrNotLoaned = errors.New("message was not loaned from this pool")

// eventSource tracks the event handles created on one entity so that test
// and demo code can inject occurrences.
type eventSource struct {
	mu      sync.Mutex
	handles map[middleware.EventKind][]*occurrenceQueue
}

// NewEventHandle creates a queue-backed handle bound to this entity and
// event kind.
func (s *eventSource) NewEventHandle(
	kind middleware.EventKind,
) (middleware.EventHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handles == nil {
		s.handles = make(map[middleware.EventKind][]*occurrenceQueue)
	}

	q := newOccurrenceQueue()
	s.handles[kind] = append(s.handles[kind], q)

	return q, nil
}

// Raise queues one occurrence of the given kind on every handle bound to
// it, as the middleware's event detection would.
func (s *eventSource) Raise(kind middleware.EventKind, info any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.handles[kind] {
		// Pushing to a finalized handle only means the entity outlived
		// the watcher; the occurrence is dropped.
		_ = q.push(info)
	}
}

// A PublisherConfig parameterizes a loopback publisher.
type PublisherConfig struct {
	// Loanable enables the message pool.
	Loanable bool

	// PoolSize is the number of message instances in the pool.
	PoolSize int

	// NewMessage constructs one pooled message instance. Required when
	// Loanable is set; the returned value must be a pointer to the
	// message type.
	NewMessage func() any
}

// A Publisher is a loopback publisher handle with an optional fixed-size
// message pool.
type Publisher struct {
	eventSource

	loanable bool

	mu        sync.Mutex
	free      []any
	loanedOut map[any]bool
}

// NewPublisher creates a loopback publisher.
func (m *Middleware) NewPublisher(cfg PublisherConfig) *Publisher {
	p := &Publisher{
		loanable:  cfg.Loanable,
		loanedOut: make(map[any]bool),
	}

	if cfg.Loanable {
		for i := 0; i < cfg.PoolSize; i++ {
			p.free = append(p.free, cfg.NewMessage())
		}
	}

	return p
}

// CanLoanMessages reports whether the publisher was created with a pool.
func (p *Publisher) CanLoanMessages() bool {
	return p.loanable
}

// LoanMessage takes one message instance from the pool.
func (p *Publisher) LoanMessage() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil, ErrPoolExhausted
	}

	msg := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.loanedOut[msg] = true

	return msg, nil
}

// ReturnLoanedMessage gives a loaned instance back to the pool.
func (p *Publisher) ReturnLoanedMessage(msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loanedOut[msg] {
		return ErrNotLoaned
	}

	delete(p.loanedOut, msg)
	p.free = append(p.free, msg)

	return nil
}

// Outstanding returns the number of loans not yet returned.
func (p *Publisher) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.loanedOut)
}

// A Subscription is a loopback subscription handle.
type Subscription struct {
	eventSource
}

// NewSubscription creates a loopback subscription.
func (m *Middleware) NewSubscription() *Subscription {
	return &Subscription{}
}
