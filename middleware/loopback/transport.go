package loopback

import (
	"log"

	"github.com/j-rivero/rclgo/middleware"
)

// An exchange is one in-flight request and the path its response takes back
// to the requesting client.
type exchange struct {
	req     any
	deliver func(resp any)
}

// A completion is one response waiting to run its client's done callback.
type completion struct {
	resp any
	done func(resp any)
}

// A Server is the serving endpoint of one service. It is a waitable: it is
// ready while requests are pending, and each execution handles exactly one
// request.
type Server struct {
	m       *Middleware
	service string
	handler middleware.HandlerFunc

	requests *occurrenceQueue
	index    int
}

// CreateServer registers a server for the service.
func (m *Middleware) CreateServer(
	service string,
	handler middleware.HandlerFunc,
) (middleware.Server, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.servers[service]; taken {
		return nil, ErrServiceTaken
	}

	s := &Server{
		m:        m,
		service:  service,
		handler:  handler,
		requests: newOccurrenceQueue(),
		index:    -1,
	}
	m.servers[service] = s

	return s, nil
}

// Service returns the service name the server is bound to.
func (s *Server) Service() string {
	return s.service
}

// NumReadyEvents returns 1.
func (s *Server) NumReadyEvents() int {
	return 1
}

// AddToWaitSet registers the server's request queue.
func (s *Server) AddToWaitSet(ws *middleware.WaitSet) {
	s.index = ws.Add(s.requests)
}

// IsReady reports whether the server's own slot was found ready.
func (s *Server) IsReady(ws *middleware.WaitSet) bool {
	if s.index < 0 {
		return false
	}

	return ws.ReadyAt(s.index) == middleware.EventHandle(s.requests)
}

// Execute handles one pending request and delivers its response to the
// requesting client. A handler error abandons the exchange: the response
// never arrives and the caller's future stays pending.
func (s *Server) Execute() {
	var ex *exchange

	if err := s.requests.TakeInto(&ex); err != nil {
		log.Printf("could not take request: %v", err)
		return
	}

	resp, err := s.handler(ex.req)
	if err != nil {
		log.Printf("service %s handler failed: %v", s.service, err)
		return
	}

	ex.deliver(resp)
}

// Close unregisters the server.
func (s *Server) Close() error {
	s.m.unregister(s.service)

	return s.requests.Fini()
}

// A Client is the requesting endpoint of one service. It is a waitable: it
// is ready while completions are pending, and each execution runs exactly
// one completion callback.
type Client struct {
	m       *Middleware
	service string

	completions *occurrenceQueue
	index       int
}

// CreateClient creates a client for the service.
func (m *Middleware) CreateClient(service string) (middleware.Client, error) {
	return &Client{
		m:           m,
		service:     service,
		completions: newOccurrenceQueue(),
		index:       -1,
	}, nil
}

// Service returns the service name the client is bound to.
func (c *Client) Service() string {
	return c.service
}

// SendRequest queues the request on the service's server. The done callback
// runs when the client waitable is executed with the response pending, so
// completions run on whatever thread services the wait loop.
func (c *Client) SendRequest(req any, done func(resp any)) error {
	server := c.m.lookup(c.service)
	if server == nil {
		return ErrNoService
	}

	return server.requests.push(&exchange{
		req: req,
		deliver: func(resp any) {
			if err := c.completions.push(completion{resp, done}); err != nil {
				log.Printf("dropping response for closed client %s: %v",
					c.service, err)
			}
		},
	})
}

// NumReadyEvents returns 1.
func (c *Client) NumReadyEvents() int {
	return 1
}

// AddToWaitSet registers the client's completion queue.
func (c *Client) AddToWaitSet(ws *middleware.WaitSet) {
	c.index = ws.Add(c.completions)
}

// IsReady reports whether the client's own slot was found ready.
func (c *Client) IsReady(ws *middleware.WaitSet) bool {
	if c.index < 0 {
		return false
	}

	return ws.ReadyAt(c.index) == middleware.EventHandle(c.completions)
}

// Execute runs one pending completion callback.
func (c *Client) Execute() {
	var comp completion

	if err := c.completions.TakeInto(&comp); err != nil {
		log.Printf("could not take completion: %v", err)
		return
	}

	comp.done(comp.resp)
}

// Close releases the client.
func (c *Client) Close() error {
	return c.completions.Fini()
}
