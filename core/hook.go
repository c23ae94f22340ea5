package core

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosBeforeExecute triggers before a ready waitable is executed.
var HookPosBeforeExecute = &HookPos{Name: "BeforeExecute"}

// HookPosAfterExecute triggers after a ready waitable has been executed.
var HookPosAfterExecute = &HookPos{Name: "AfterExecute"}

// HookPosCallStart triggers when an asynchronous call is sent.
var HookPosCallStart = &HookPos{Name: "CallStart"}

// HookPosCallComplete triggers when an asynchronous call's completion has
// resolved its future.
var HookPosCallComplete = &HookPos{Name: "CallComplete"}

// HookCtx holds the information about the site where a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hook is a short piece of program that a hookable object invokes.
type Hook interface {
	// Func determines what to do when the hook is invoked.
	Func(ctx HookCtx)
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// A HookableBase provides the utility functions for types that implement the
// Hookable interface.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
