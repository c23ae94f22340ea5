package middleware

// A Client is one side of a request/response service pair. Requests are sent
// asynchronously; the middleware correlates responses to requests internally
// and runs the completion callback from its own completion context.
type Client interface {
	// Service returns the service name the client is bound to.
	Service() string

	// SendRequest sends req asynchronously. done runs once, with the
	// response payload, when the middleware completes the exchange. If
	// the exchange never completes, done never runs. SendRequest itself
	// only fails when the request cannot be issued at all.
	SendRequest(req any, done func(resp any)) error

	// Close releases the client.
	Close() error
}

// A Server is the registered serving side of one service.
type Server interface {
	// Service returns the service name the server is bound to.
	Service() string

	// Close unregisters the server.
	Close() error
}

// A HandlerFunc services one request and produces its response.
type HandlerFunc func(req any) (any, error)

// A Transport creates request/response endpoints.
type Transport interface {
	CreateClient(service string) (Client, error)
	CreateServer(service string, handler HandlerFunc) (Server, error)
}
