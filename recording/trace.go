package recording

import (
	"fmt"
	"time"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/params"
)

// ExecutionEntry is one row of the waitable execution table.
type ExecutionEntry struct {
	TimeNS   int64
	Waitable string
}

// CallEntry is one row of the parameter call table.
type CallEntry struct {
	ID        string
	Service   string
	StartNS   int64
	EndNS     int64
	Succeeded bool
	Error     string
}

const (
	executionTable = "waitable_executions"
	callTable      = "parameter_calls"
)

// A Trace is a hook that persists waitable executions and parameter call
// completions through a Recorder. Attach it to an executor and to async
// parameter clients.
type Trace struct {
	recorder Recorder
	clock    func() int64
}

// NewTrace creates a Trace writing into the recorder's tables.
func NewTrace(recorder Recorder, clock func() int64) *Trace {
	if clock == nil {
		clock = func() int64 { return time.Now().UnixNano() }
	}

	t := &Trace{
		recorder: recorder,
		clock:    clock,
	}

	recorder.CreateTable(executionTable, ExecutionEntry{})
	recorder.CreateTable(callTable, CallEntry{})

	return t
}

// Func records the hooked activity.
func (t *Trace) Func(ctx core.HookCtx) {
	switch ctx.Pos {
	case core.HookPosAfterExecute:
		t.recordExecution(ctx)
	case core.HookPosCallComplete:
		t.recordCall(ctx)
	}
}

func (t *Trace) recordExecution(ctx core.HookCtx) {
	name := fmt.Sprintf("%T", ctx.Item)
	if named, ok := ctx.Item.(core.Named); ok {
		name = named.Name()
	}

	t.recorder.InsertData(executionTable, ExecutionEntry{
		TimeNS:   t.clock(),
		Waitable: name,
	})
}

func (t *Trace) recordCall(ctx core.HookCtx) {
	info, ok := ctx.Item.(*params.CallInfo)
	if !ok {
		return
	}

	entry := CallEntry{
		ID:        info.ID,
		Service:   info.Service,
		StartNS:   info.Start.UnixNano(),
		EndNS:     info.End.UnixNano(),
		Succeeded: info.Err == nil,
	}
	if info.Err != nil {
		entry.Error = info.Err.Error()
	}

	t.recorder.InsertData(callTable, entry)
}
