package pubsub

import (
	"log"
	"sync"

	"github.com/j-rivero/rclgo/middleware"
)

// A Publisher is the owning entity of loaned messages and of publisher-side
// events.
type Publisher struct {
	name   string
	handle middleware.PublisherHandle

	loanWarning sync.Once
}

// NewPublisher wraps a native publisher handle.
func NewPublisher(name string, handle middleware.PublisherHandle) *Publisher {
	return &Publisher{
		name:   name,
		handle: handle,
	}
}

// Name returns the name of the publisher.
func (p *Publisher) Name() string {
	return p.name
}

// Handle returns the native handle of the publisher.
func (p *Publisher) Handle() middleware.PublisherHandle {
	return p.handle
}

// WatchDeadlineMissed enables the deadline-missed event on this publisher
// and returns the waitable servicing it.
func (p *Publisher) WatchDeadlineMissed(
	callback func(middleware.DeadlineMissedInfo),
) (*EventHandler[middleware.DeadlineMissedInfo], error) {
	return NewEventHandler(p.handle, middleware.EventDeadlineMissed, callback)
}

// WatchLivelinessLost enables the liveliness-lost event on this publisher
// and returns the waitable servicing it.
func (p *Publisher) WatchLivelinessLost(
	callback func(middleware.LivelinessLostInfo),
) (*EventHandler[middleware.LivelinessLostInfo], error) {
	return NewEventHandler(p.handle, middleware.EventLivelinessLost, callback)
}

func (p *Publisher) warnCannotLoan() {
	p.loanWarning.Do(func() {
		log.Printf(
			"publisher %s: middleware cannot loan messages, "+
				"falling back to local allocation",
			p.name)
	})
}

// A Subscription is the owning entity of subscription-side events.
type Subscription struct {
	name   string
	handle middleware.SubscriptionHandle
}

// NewSubscription wraps a native subscription handle.
func NewSubscription(
	name string,
	handle middleware.SubscriptionHandle,
) *Subscription {
	return &Subscription{
		name:   name,
		handle: handle,
	}
}

// Name returns the name of the subscription.
func (s *Subscription) Name() string {
	return s.name
}

// WatchDeadlineMissed enables the requested-deadline-missed event on this
// subscription and returns the waitable servicing it.
func (s *Subscription) WatchDeadlineMissed(
	callback func(middleware.DeadlineMissedInfo),
) (*EventHandler[middleware.DeadlineMissedInfo], error) {
	return NewEventHandler(s.handle, middleware.EventDeadlineMissed, callback)
}

// WatchLivelinessChanged enables the liveliness-changed event on this
// subscription and returns the waitable servicing it.
func (s *Subscription) WatchLivelinessChanged(
	callback func(middleware.LivelinessChangedInfo),
) (*EventHandler[middleware.LivelinessChangedInfo], error) {
	return NewEventHandler(s.handle, middleware.EventLivelinessChanged, callback)
}
