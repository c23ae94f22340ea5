// Package executor provides the cooperative single-threaded loop that
// services every registered waitable. The loop spawns no worker threads:
// all event callbacks and call completions run on whichever thread drives
// SpinOnce or Spin.
package executor

import (
	"sync"
	"time"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/middleware"
)

// A SingleThreaded executor owns one wait set and services its waitables
// one cycle at a time.
type SingleThreaded struct {
	core.HookableBase

	waiter  middleware.Waiter
	waitSet *middleware.WaitSet

	mu        sync.Mutex
	waitables []core.Waitable

	isShutdown   bool
	shutdownLock sync.Mutex

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleSpinLock sync.Mutex
}

// NewSingleThreaded creates an executor waiting through the given waiter.
func NewSingleThreaded(waiter middleware.Waiter) *SingleThreaded {
	return &SingleThreaded{
		waiter:  waiter,
		waitSet: middleware.NewWaitSet(),
	}
}

// Name returns the name of the executor.
func (e *SingleThreaded) Name() string {
	return "executor"
}

// Add registers a waitable. The wait set assigns its slot index here, at
// registration time.
func (e *SingleThreaded) Add(w core.Waitable) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w.AddToWaitSet(e.waitSet)
	e.waitables = append(e.waitables, w)
}

// NumWaitables returns the number of registered waitables.
func (e *SingleThreaded) NumWaitables() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.waitables)
}

// SpinOnce performs one servicing iteration: it waits with a zero timeout
// and executes every ready waitable once, in the order the wait set reports
// them. It returns false once the executor is shut down, which is the stop
// signal of the blocking bridge.
func (e *SingleThreaded) SpinOnce() bool {
	return e.spinOnce(0)
}

func (e *SingleThreaded) spinOnce(timeout time.Duration) bool {
	e.singleSpinLock.Lock()
	defer e.singleSpinLock.Unlock()

	if e.shutdownRequested() {
		return false
	}

	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	e.mu.Lock()
	waitables := make([]core.Waitable, len(e.waitables))
	copy(waitables, e.waitables)
	e.mu.Unlock()

	e.waitSet.ClearReady()

	if err := e.waiter.Wait(e.waitSet, timeout); err != nil {
		return false
	}

	for _, w := range waitables {
		if !w.IsReady(e.waitSet) {
			continue
		}

		hookCtx := core.HookCtx{
			Domain: e,
			Pos:    core.HookPosBeforeExecute,
			Item:   w,
		}
		e.InvokeHook(hookCtx)

		w.Execute()

		hookCtx.Pos = core.HookPosAfterExecute
		e.InvokeHook(hookCtx)
	}

	return true
}

// Spin services waitables until Shutdown is called, blocking in the waiter
// between cycles.
func (e *SingleThreaded) Spin() {
	for e.spinOnce(10 * time.Millisecond) {
	}
}

// Step returns the executor's servicing iteration as a step function for
// the blocking bridge.
func (e *SingleThreaded) Step() core.StepFunc {
	return e.SpinOnce
}

// Shutdown makes the current and all future spins return false.
func (e *SingleThreaded) Shutdown() {
	e.shutdownLock.Lock()
	defer e.shutdownLock.Unlock()

	e.isShutdown = true
}

func (e *SingleThreaded) shutdownRequested() bool {
	e.shutdownLock.Lock()
	defer e.shutdownLock.Unlock()

	return e.isShutdown
}

// Pause prevents the executor from servicing more cycles.
func (e *SingleThreaded) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the executor to service cycles again.
func (e *SingleThreaded) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}
