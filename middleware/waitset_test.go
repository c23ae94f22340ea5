package middleware

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubHandle struct {
	id int
}

func (h *stubHandle) TakeInto(any) error {
	return errors.New("nothing to take")
}

func (h *stubHandle) Fini() error {
	return nil
}

var _ = Describe("WaitSet", func() {
	var ws *WaitSet

	BeforeEach(func() {
		ws = NewWaitSet()
	})

	It("should assign slots in registration order", func() {
		h1 := &stubHandle{id: 1}
		h2 := &stubHandle{id: 2}

		Expect(ws.Add(h1)).To(Equal(0))
		Expect(ws.Add(h2)).To(Equal(1))
		Expect(ws.Len()).To(Equal(2))
		Expect(ws.Handle(0)).To(Equal(EventHandle(h1)))
		Expect(ws.Handle(1)).To(Equal(EventHandle(h2)))
	})

	It("should start with no ready slots", func() {
		ws.Add(&stubHandle{})

		Expect(ws.ReadyAt(0)).To(BeNil())
	})

	It("should report the registered handle in the ready slot", func() {
		h1 := &stubHandle{id: 1}
		h2 := &stubHandle{id: 2}
		ws.Add(h1)
		ws.Add(h2)

		ws.MarkReady(1)

		Expect(ws.ReadyAt(0)).To(BeNil())
		Expect(ws.ReadyAt(1)).To(Equal(EventHandle(h2)))
	})

	It("should clear ready slots between waits", func() {
		ws.Add(&stubHandle{})
		ws.MarkReady(0)

		ws.ClearReady()

		Expect(ws.ReadyAt(0)).To(BeNil())
	})

	It("should keep slot assignments stable across additions", func() {
		h1 := &stubHandle{id: 1}
		slot := ws.Add(h1)

		ws.Add(&stubHandle{id: 2})
		ws.Add(&stubHandle{id: 3})

		Expect(ws.Handle(slot)).To(Equal(EventHandle(h1)))
	})
})

var _ = Describe("CallError", func() {
	It("should name the operation and keep the cause", func() {
		cause := errors.New("service unavailable")
		err := NewCallError("create client", cause)

		Expect(err.Error()).To(
			Equal("middleware: create client: service unavailable"))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})
})
