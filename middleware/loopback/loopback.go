// Package loopback provides an in-process middleware implementation. Event
// handles are queue-backed, publishers loan messages from a fixed-size typed
// pool, and the request/response transport delivers through endpoint
// waitables serviced by the event loop, so completion callbacks genuinely
// run on the loop thread. It backs the tests and the demo command.
package loopback

import (
	"errors"
	"sync"
	"time"

	"github.com/j-rivero/rclgo/middleware"
)

// ErrNoService is returned when a request is sent to a service with no
// registered server.
var ErrNoService = errors.New("no server registered for service")

// ErrServiceTaken is returned when a second server registers one service.
var ErrServiceTaken = errors.New("service already has a server")

// Middleware is an in-process middleware instance. It implements
// middleware.Transport and middleware.Waiter.
type Middleware struct {
	mu      sync.Mutex
	servers map[string]*Server
}

// New creates a loopback middleware instance.
func New() *Middleware {
	return &Middleware{
		servers: make(map[string]*Server),
	}
}

// Wait marks the ready slot of every registered handle with a pending
// occurrence. With a positive timeout, Wait polls until at least one handle
// is ready or the timeout elapses; a zero timeout checks once.
func (m *Middleware) Wait(
	ws *middleware.WaitSet,
	timeout time.Duration,
) error {
	deadline := time.Now().Add(timeout)

	for {
		anyReady := false

		for i := 0; i < ws.Len(); i++ {
			q, ok := ws.Handle(i).(*occurrenceQueue)
			if ok && q.pendingCount() > 0 {
				ws.MarkReady(i)
				anyReady = true
			}
		}

		if anyReady || timeout <= 0 || !time.Now().Before(deadline) {
			return nil
		}

		time.Sleep(time.Millisecond)
	}
}

func (m *Middleware) lookup(service string) *Server {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.servers[service]
}

func (m *Middleware) unregister(service string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.servers, service)
}
