package params

import (
	"sort"
	"strings"
	"sync"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/middleware"
)

// Separator delimits the segments of a hierarchical parameter name.
const Separator = "."

// A Server services the five parameter calls against an in-memory parameter
// map, so that a node can answer self-directed and remote parameter calls.
type Server struct {
	nodeName string

	mu     sync.Mutex
	values map[string]any

	servers []middleware.Server
}

// NewServer registers the five parameter services of nodeName on the
// transport. A service that cannot be registered aborts construction.
func NewServer(t middleware.Transport, nodeName string) (*Server, error) {
	s := &Server{
		nodeName: nodeName,
		values:   make(map[string]any),
	}

	services := []struct {
		suffix  string
		handler middleware.HandlerFunc
	}{
		{getService, s.handleGet},
		{getTypesService, s.handleGetTypes},
		{setService, s.handleSet},
		{setAtomicallyService, s.handleSetAtomically},
		{listService, s.handleList},
	}

	for _, entry := range services {
		server, err := t.CreateServer(
			serviceName(nodeName, entry.suffix), entry.handler)
		if err != nil {
			s.Close()
			return nil, middleware.NewCallError("create server", err)
		}

		s.servers = append(s.servers, server)
	}

	return s, nil
}

// Name returns the name of the server.
func (s *Server) Name() string {
	return "params.server." + s.nodeName
}

// Waitables returns the transport endpoints that must be serviced by the
// event loop for requests to be handled, for transports whose servers are
// themselves waitables.
func (s *Server) Waitables() []core.Waitable {
	var waitables []core.Waitable
	for _, server := range s.servers {
		if w, ok := server.(core.Waitable); ok {
			waitables = append(waitables, w)
		}
	}

	return waitables
}

// Close unregisters the services.
func (s *Server) Close() error {
	var firstErr error

	for _, server := range s.servers {
		if err := server.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Declare sets a parameter directly, bypassing the service path.
func (s *Server) Declare(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = value
}

// Value returns the current value of a parameter.
func (s *Server) Value(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[name]

	return value, ok
}

func (s *Server) handleGet(req any) (any, error) {
	getReq := req.(*GetRequest)

	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]any, len(getReq.Names))
	for i, name := range getReq.Names {
		values[i] = s.values[name]
	}

	return &GetResponse{Values: values}, nil
}

func (s *Server) handleGetTypes(req any) (any, error) {
	typesReq := req.(*GetTypesRequest)

	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]Type, len(typesReq.Names))
	for i, name := range typesReq.Names {
		types[i] = TypeOf(s.values[name])
	}

	return &GetTypesResponse{Types: types}, nil
}

func validateParameter(p Parameter) SetResult {
	if p.Name == "" {
		return SetResult{Reason: "parameter name must not be empty"}
	}

	return SetResult{Successful: true}
}

func (s *Server) handleSet(req any) (any, error) {
	setReq := req.(*SetRequest)

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]SetResult, len(setReq.Parameters))
	for i, p := range setReq.Parameters {
		results[i] = validateParameter(p)
		if results[i].Successful {
			s.values[p.Name] = p.Value
		}
	}

	return &SetResponse{Results: results}, nil
}

func (s *Server) handleSetAtomically(req any) (any, error) {
	setReq := req.(*SetAtomicallyRequest)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range setReq.Parameters {
		if result := validateParameter(p); !result.Successful {
			return &SetAtomicallyResponse{Result: result}, nil
		}
	}

	for _, p := range setReq.Parameters {
		s.values[p.Name] = p.Value
	}

	return &SetAtomicallyResponse{
		Result: SetResult{Successful: true},
	}, nil
}

func (s *Server) handleList(req any) (any, error) {
	listReq := req.(*ListRequest)

	s.mu.Lock()
	defer s.mu.Unlock()

	var result ListResult
	prefixes := make(map[string]bool)

	for name := range s.values {
		if !matchesList(name, listReq.Prefixes, listReq.Depth) {
			continue
		}

		result.Names = append(result.Names, name)

		if i := strings.LastIndex(name, Separator); i > 0 {
			prefixes[name[:i]] = true
		}
	}

	for prefix := range prefixes {
		result.Prefixes = append(result.Prefixes, prefix)
	}

	sort.Strings(result.Names)
	sort.Strings(result.Prefixes)

	return &ListResponse{Result: result}, nil
}

// matchesList reports whether name falls under one of the prefixes within
// the depth bound. With no prefixes, the depth bounds the total segment
// count; DepthRecursive lifts the bound.
func matchesList(name string, prefixes []string, depth uint64) bool {
	if len(prefixes) == 0 {
		return withinDepth(name, depth)
	}

	for _, prefix := range prefixes {
		if name == prefix {
			return true
		}

		if strings.HasPrefix(name, prefix+Separator) {
			below := name[len(prefix)+len(Separator):]
			if withinDepth(below, depth) {
				return true
			}
		}
	}

	return false
}

func withinDepth(relative string, depth uint64) bool {
	if depth == DepthRecursive {
		return true
	}

	segments := uint64(strings.Count(relative, Separator)) + 1

	return segments <= depth
}
