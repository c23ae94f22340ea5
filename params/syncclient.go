package params

import (
	"time"

	"github.com/j-rivero/rclgo/core"
)

// A SyncClient exposes the five parameter calls with blocking signatures.
// Each call issues the asynchronous form and then drives the event loop
// step function until the future resolves or the timeout elapses. Other
// waitables registered on the same runtime may be serviced incidentally
// while a call blocks.
type SyncClient struct {
	async *AsyncClient
	step  core.StepFunc
}

// NewSyncClient wraps an asynchronous client with the step function of the
// event loop that services its completions.
func NewSyncClient(async *AsyncClient, step core.StepFunc) *SyncClient {
	return &SyncClient{
		async: async,
		step:  step,
	}
}

// Async returns the underlying asynchronous client.
func (c *SyncClient) Async() *AsyncClient {
	return c.async
}

// GetParameters returns the values of the named parameters, in request
// order.
func (c *SyncClient) GetParameters(
	names []string,
	timeout time.Duration,
) ([]Parameter, error) {
	future, err := c.async.GetParameters(names, nil)
	if err != nil {
		return nil, err
	}

	return core.SpinUntilComplete(future, c.step, timeout)
}

// GetParameterTypes returns the types of the named parameters, in request
// order.
func (c *SyncClient) GetParameterTypes(
	names []string,
	timeout time.Duration,
) ([]Type, error) {
	future, err := c.async.GetParameterTypes(names, nil)
	if err != nil {
		return nil, err
	}

	return core.SpinUntilComplete(future, c.step, timeout)
}

// SetParameters sets each parameter independently and returns one result
// per parameter.
func (c *SyncClient) SetParameters(
	parameters []Parameter,
	timeout time.Duration,
) ([]SetResult, error) {
	future, err := c.async.SetParameters(parameters, nil)
	if err != nil {
		return nil, err
	}

	return core.SpinUntilComplete(future, c.step, timeout)
}

// SetParametersAtomically sets all parameters or none and returns the
// aggregate result.
func (c *SyncClient) SetParametersAtomically(
	parameters []Parameter,
	timeout time.Duration,
) (SetResult, error) {
	future, err := c.async.SetParametersAtomically(parameters, nil)
	if err != nil {
		return SetResult{}, err
	}

	return core.SpinUntilComplete(future, c.step, timeout)
}

// ListParameters returns the parameter names under the given prefixes,
// bounded to depth.
func (c *SyncClient) ListParameters(
	prefixes []string,
	depth uint64,
	timeout time.Duration,
) (ListResult, error) {
	future, err := c.async.ListParameters(prefixes, depth, nil)
	if err != nil {
		return ListResult{}, err
	}

	return core.SpinUntilComplete(future, c.step, timeout)
}
