package executor

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/middleware"
)

type fakeHandle struct {
	pending int
}

func (h *fakeHandle) TakeInto(dst any) error {
	if h.pending == 0 {
		return errors.New("no occurrence pending")
	}

	h.pending--

	return nil
}

func (h *fakeHandle) Fini() error {
	return nil
}

// fakeWaitable becomes ready while its handle has pending occurrences and
// counts its executions.
type fakeWaitable struct {
	handle   *fakeHandle
	index    int
	executed int
}

func newFakeWaitable() *fakeWaitable {
	return &fakeWaitable{handle: &fakeHandle{}, index: -1}
}

func (w *fakeWaitable) NumReadyEvents() int {
	return 1
}

func (w *fakeWaitable) AddToWaitSet(ws *middleware.WaitSet) {
	w.index = ws.Add(w.handle)
}

func (w *fakeWaitable) IsReady(ws *middleware.WaitSet) bool {
	if w.index < 0 {
		return false
	}

	return ws.ReadyAt(w.index) == middleware.EventHandle(w.handle)
}

func (w *fakeWaitable) Execute() {
	w.executed++
	w.handle.pending--
}

// fakeWaiter marks every fakeHandle with pending occurrences ready.
type fakeWaiter struct {
	waits   int
	waitErr error
}

func (f *fakeWaiter) Wait(
	ws *middleware.WaitSet,
	timeout time.Duration,
) error {
	f.waits++

	if f.waitErr != nil {
		return f.waitErr
	}

	for i := 0; i < ws.Len(); i++ {
		if h, ok := ws.Handle(i).(*fakeHandle); ok && h.pending > 0 {
			ws.MarkReady(i)
		}
	}

	return nil
}

type executionHook struct {
	before []core.Waitable
	after  []core.Waitable
}

func (h *executionHook) Func(ctx core.HookCtx) {
	w := ctx.Item.(core.Waitable)

	switch ctx.Pos {
	case core.HookPosBeforeExecute:
		h.before = append(h.before, w)
	case core.HookPosAfterExecute:
		h.after = append(h.after, w)
	}
}

var _ = Describe("SingleThreaded", func() {
	var (
		waiter *fakeWaiter
		exec   *SingleThreaded
	)

	BeforeEach(func() {
		waiter = &fakeWaiter{}
		exec = NewSingleThreaded(waiter)
	})

	It("should register waitables into its wait set", func() {
		w1 := newFakeWaitable()
		w2 := newFakeWaitable()

		exec.Add(w1)
		exec.Add(w2)

		Expect(exec.NumWaitables()).To(Equal(2))
		Expect(w1.index).To(Equal(0))
		Expect(w2.index).To(Equal(1))
	})

	It("should execute only the ready waitables", func() {
		ready := newFakeWaitable()
		idle := newFakeWaitable()
		exec.Add(ready)
		exec.Add(idle)

		ready.handle.pending = 1

		Expect(exec.SpinOnce()).To(BeTrue())

		Expect(ready.executed).To(Equal(1))
		Expect(idle.executed).To(Equal(0))
	})

	It("should execute each ready waitable once per cycle", func() {
		w := newFakeWaitable()
		exec.Add(w)
		w.handle.pending = 3

		Expect(exec.SpinOnce()).To(BeTrue())
		Expect(w.executed).To(Equal(1))

		Expect(exec.SpinOnce()).To(BeTrue())
		Expect(exec.SpinOnce()).To(BeTrue())
		Expect(w.executed).To(Equal(3))
	})

	It("should spin idly when nothing is ready", func() {
		w := newFakeWaitable()
		exec.Add(w)

		Expect(exec.SpinOnce()).To(BeTrue())

		Expect(w.executed).To(Equal(0))
		Expect(waiter.waits).To(Equal(1))
	})

	It("should stop once a wait fails", func() {
		waiter.waitErr = errors.New("wait set torn down")

		Expect(exec.SpinOnce()).To(BeFalse())
	})

	It("should invoke execution hooks around each waitable", func() {
		hook := &executionHook{}
		exec.AcceptHook(hook)

		w := newFakeWaitable()
		exec.Add(w)
		w.handle.pending = 1

		exec.SpinOnce()

		Expect(hook.before).To(Equal([]core.Waitable{w}))
		Expect(hook.after).To(Equal([]core.Waitable{w}))
	})

	It("should refuse to spin after shutdown", func() {
		w := newFakeWaitable()
		exec.Add(w)
		w.handle.pending = 1

		exec.Shutdown()

		Expect(exec.SpinOnce()).To(BeFalse())
		Expect(w.executed).To(Equal(0))
		Expect(waiter.waits).To(Equal(0))
	})

	It("should stop a running spin on shutdown", func() {
		stopped := make(chan struct{})
		go func() {
			exec.Spin()
			close(stopped)
		}()

		exec.Shutdown()

		Eventually(stopped).Should(BeClosed())
	})

	It("should serve as the step function of a blocking wait", func() {
		w := newFakeWaitable()
		exec.Add(w)
		w.handle.pending = 2

		err := core.WaitUntil(func() bool {
			return w.executed == 2
		}, exec.Step(), core.NoTimeout)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should cancel a blocking wait on shutdown", func() {
		exec.Shutdown()

		err := core.WaitUntil(func() bool { return false },
			exec.Step(), core.NoTimeout)

		Expect(err).To(MatchError(core.ErrCancelled))
	})

	It("should hold cycles while paused", func() {
		w := newFakeWaitable()
		exec.Add(w)
		w.handle.pending = 1

		exec.Pause()

		spun := make(chan bool, 1)
		go func() {
			spun <- exec.SpinOnce()
		}()

		Consistently(spun).ShouldNot(Receive())

		exec.Continue()

		Eventually(spun).Should(Receive(BeTrue()))
		Expect(w.executed).To(Equal(1))
	})

	It("should tolerate repeated pause and continue", func() {
		exec.Pause()
		exec.Pause()
		exec.Continue()
		exec.Continue()

		Expect(exec.SpinOnce()).To(BeTrue())
	})
})
