package middleware

// A PublisherHandle is the native handle of a publisher entity. Besides
// emitting events, publishers may expose a middleware-managed message pool
// for zero-copy publishing.
type PublisherHandle interface {
	EventSource

	// CanLoanMessages reports whether the middleware can loan message
	// memory from its own pool for this publisher.
	CanLoanMessages() bool

	// LoanMessage takes one message instance from the pool. The returned
	// value is a pointer to the message type the publisher was created
	// with. LoanMessage must only be called when CanLoanMessages is true.
	LoanMessage() (any, error)

	// ReturnLoanedMessage gives a loaned message instance back to the
	// pool. The message must have been obtained through LoanMessage.
	ReturnLoanedMessage(msg any) error
}

// A SubscriptionHandle is the native handle of a subscription entity.
type SubscriptionHandle interface {
	EventSource
}
