package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHook struct {
	contexts []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.contexts = append(h.contexts, ctx)
}

var _ = Describe("HookableBase", func() {
	var hookable *HookableBase

	BeforeEach(func() {
		hookable = &HookableBase{}
	})

	It("should accept hooks", func() {
		hookable.AcceptHook(&recordingHook{})
		hookable.AcceptHook(&recordingHook{})

		Expect(hookable.NumHooks()).To(Equal(2))
	})

	It("should invoke every registered hook", func() {
		hook1 := &recordingHook{}
		hook2 := &recordingHook{}
		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)

		ctx := HookCtx{Pos: HookPosAfterExecute, Item: "item"}
		hookable.InvokeHook(ctx)

		Expect(hook1.contexts).To(HaveLen(1))
		Expect(hook1.contexts[0].Pos).To(BeIdenticalTo(HookPosAfterExecute))
		Expect(hook1.contexts[0].Item).To(Equal("item"))
		Expect(hook2.contexts).To(HaveLen(1))
	})

	It("should do nothing with no hooks registered", func() {
		Expect(func() {
			hookable.InvokeHook(HookCtx{Pos: HookPosCallStart})
		}).ToNot(Panic())
	})
})

var _ = Describe("IDGenerator", func() {
	It("should generate sequential IDs", func() {
		gen := NewSequentialIDGenerator()

		Expect(gen.Generate()).To(Equal("1"))
		Expect(gen.Generate()).To(Equal("2"))
		Expect(gen.Generate()).To(Equal("3"))
	})

	It("should generate distinct unique IDs", func() {
		gen := NewXIDGenerator()

		Expect(gen.Generate()).ToNot(Equal(gen.Generate()))
	})
})
