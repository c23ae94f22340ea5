package params

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/middleware"
)

// ErrIncompleteResponse is the failure of a call whose response does not
// carry one entry per requested name. Results are correlated to names by
// position, so a short or oversized response cannot be attributed and fails
// the whole call rather than yielding a partial result.
var ErrIncompleteResponse = errors.New("response does not match request")

// ErrUnexpectedResponse is the failure of a call whose completion payload is
// not the response type of its service.
var ErrUnexpectedResponse = errors.New("unexpected response payload")

// A CallInfo describes one asynchronous parameter call, for hooks.
type CallInfo struct {
	ID      string
	Service string
	Start   time.Time
	End     time.Time
	Err     error
}

// An AsyncClient issues the five parameter call shapes against one remote
// node. Each call sends a request asynchronously and returns a future that
// the transport's completion resolves; an optional callback runs
// synchronously inside that completion, after the future is set. A callback
// that blocks on its own future would therefore deadlock; that is the
// caller's responsibility.
//
// The client does not spawn threads. If the transport never completes an
// exchange, the future stays pending; bounding that wait is the blocking
// bridge's job.
type AsyncClient struct {
	core.HookableBase

	nodeName   string
	remoteName string
	ids        core.IDGenerator
	inFlight   atomic.Int64

	getClient           middleware.Client
	getTypesClient      middleware.Client
	setClient           middleware.Client
	setAtomicallyClient middleware.Client
	listClient          middleware.Client
}

// A Config parameterizes an AsyncClient.
type Config struct {
	// Transport issues the underlying service calls.
	Transport middleware.Transport

	// NodeName is the name of the local node.
	NodeName string

	// RemoteName is the node whose parameters are addressed. When empty,
	// calls are self-directed at NodeName.
	RemoteName string

	// IDs generates call IDs. Defaults to globally unique IDs.
	IDs core.IDGenerator
}

// NewAsyncClient creates the five service clients for the remote node. A
// client that cannot be created aborts construction.
func NewAsyncClient(cfg Config) (*AsyncClient, error) {
	remote := cfg.RemoteName
	if remote == "" {
		remote = cfg.NodeName
	}

	ids := cfg.IDs
	if ids == nil {
		ids = core.NewXIDGenerator()
	}

	c := &AsyncClient{
		nodeName:   cfg.NodeName,
		remoteName: remote,
		ids:        ids,
	}

	clients := []struct {
		dst    *middleware.Client
		suffix string
	}{
		{&c.getClient, getService},
		{&c.getTypesClient, getTypesService},
		{&c.setClient, setService},
		{&c.setAtomicallyClient, setAtomicallyService},
		{&c.listClient, listService},
	}

	for _, entry := range clients {
		client, err := cfg.Transport.CreateClient(
			serviceName(remote, entry.suffix))
		if err != nil {
			c.Close()
			return nil, middleware.NewCallError("create client", err)
		}

		*entry.dst = client
	}

	return c, nil
}

// Name returns the name of the client.
func (c *AsyncClient) Name() string {
	return "params.client." + c.remoteName
}

// RemoteName returns the node the client addresses.
func (c *AsyncClient) RemoteName() string {
	return c.remoteName
}

// InFlight returns the number of calls sent but not yet completed.
func (c *AsyncClient) InFlight() int {
	return int(c.inFlight.Load())
}

// Waitables returns the transport endpoints that must be serviced by the
// event loop for completions to be delivered, for transports whose clients
// are themselves waitables.
func (c *AsyncClient) Waitables() []core.Waitable {
	all := []middleware.Client{
		c.getClient,
		c.getTypesClient,
		c.setClient,
		c.setAtomicallyClient,
		c.listClient,
	}

	var waitables []core.Waitable
	for _, client := range all {
		if w, ok := client.(core.Waitable); ok {
			waitables = append(waitables, w)
		}
	}

	return waitables
}

// Close releases the five service clients.
func (c *AsyncClient) Close() error {
	var firstErr error

	for _, client := range []middleware.Client{
		c.getClient,
		c.getTypesClient,
		c.setClient,
		c.setAtomicallyClient,
		c.listClient,
	} {
		if client == nil {
			continue
		}

		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// GetParameters requests the values of the named parameters. The i-th value
// of the result carries the i-th requested name: correlation is positional
// and enforced here, not inherited from the transport. A response with a
// different number of values than names fails the call.
func (c *AsyncClient) GetParameters(
	names []string,
	callback func(*core.Future[[]Parameter]),
) (*core.Future[[]Parameter], error) {
	requested := append([]string(nil), names...)
	req := &GetRequest{Names: requested}

	return sendRequest(c, c.getClient, req, callback,
		func(resp *GetResponse) ([]Parameter, error) {
			if len(resp.Values) != len(requested) {
				return nil, fmt.Errorf("%w: %d values for %d names",
					ErrIncompleteResponse,
					len(resp.Values), len(requested))
			}

			parameters := make([]Parameter, len(resp.Values))
			for i, value := range resp.Values {
				parameters[i] = Parameter{
					Name:  requested[i],
					Value: value,
				}
			}

			return parameters, nil
		})
}

// GetParameterTypes requests the types of the named parameters, in request
// order.
func (c *AsyncClient) GetParameterTypes(
	names []string,
	callback func(*core.Future[[]Type]),
) (*core.Future[[]Type], error) {
	requested := append([]string(nil), names...)
	req := &GetTypesRequest{Names: requested}

	return sendRequest(c, c.getTypesClient, req, callback,
		func(resp *GetTypesResponse) ([]Type, error) {
			if len(resp.Types) != len(requested) {
				return nil, fmt.Errorf("%w: %d types for %d names",
					ErrIncompleteResponse,
					len(resp.Types), len(requested))
			}

			return append([]Type(nil), resp.Types...), nil
		})
}

// SetParameters sets each parameter independently and yields one result per
// parameter, in request order.
func (c *AsyncClient) SetParameters(
	parameters []Parameter,
	callback func(*core.Future[[]SetResult]),
) (*core.Future[[]SetResult], error) {
	req := &SetRequest{
		Parameters: append([]Parameter(nil), parameters...),
	}

	return sendRequest(c, c.setClient, req, callback,
		func(resp *SetResponse) ([]SetResult, error) {
			return append([]SetResult(nil), resp.Results...), nil
		})
}

// SetParametersAtomically sets all parameters or none, yielding one
// aggregate result.
func (c *AsyncClient) SetParametersAtomically(
	parameters []Parameter,
	callback func(*core.Future[SetResult]),
) (*core.Future[SetResult], error) {
	req := &SetAtomicallyRequest{
		Parameters: append([]Parameter(nil), parameters...),
	}

	return sendRequest(c, c.setAtomicallyClient, req, callback,
		func(resp *SetAtomicallyResponse) (SetResult, error) {
			return resp.Result, nil
		})
}

// ListParameters requests the parameter names under the given prefixes,
// bounded to depth. Filtering happens remotely; the client applies none of
// its own.
func (c *AsyncClient) ListParameters(
	prefixes []string,
	depth uint64,
	callback func(*core.Future[ListResult]),
) (*core.Future[ListResult], error) {
	req := &ListRequest{
		Prefixes: append([]string(nil), prefixes...),
		Depth:    depth,
	}

	return sendRequest(c, c.listClient, req, callback,
		func(resp *ListResponse) (ListResult, error) {
			return resp.Result, nil
		})
}

// sendRequest issues one asynchronous call and registers the continuation
// that transforms the raw response, resolves the future exactly once from
// the completion context, and then runs the optional callback.
func sendRequest[Req any, Resp any, Result any](
	c *AsyncClient,
	client middleware.Client,
	req *Req,
	callback func(*core.Future[Result]),
	transform func(*Resp) (Result, error),
) (*core.Future[Result], error) {
	future := core.NewFuture[Result]()

	info := &CallInfo{
		ID:      c.ids.Generate(),
		Service: client.Service(),
		Start:   time.Now(),
	}

	c.inFlight.Add(1)
	c.InvokeHook(core.HookCtx{
		Domain: c,
		Pos:    core.HookPosCallStart,
		Item:   info,
	})

	err := client.SendRequest(req, func(rawResp any) {
		defer c.inFlight.Add(-1)

		resp, ok := rawResp.(*Resp)
		if !ok {
			future.Fail(fmt.Errorf("%w: %T",
				ErrUnexpectedResponse, rawResp))
		} else if result, terr := transform(resp); terr != nil {
			future.Fail(terr)
		} else {
			future.Resolve(result)
		}

		info.End = time.Now()
		_, info.Err, _ = future.Peek()

		c.InvokeHook(core.HookCtx{
			Domain: c,
			Pos:    core.HookPosCallComplete,
			Item:   info,
		})

		if callback != nil {
			callback(future)
		}
	})
	if err != nil {
		c.inFlight.Add(-1)
		return nil, middleware.NewCallError("send request", err)
	}

	return future, nil
}
