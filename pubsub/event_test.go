package pubsub

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/j-rivero/rclgo/middleware"
)

type fakeEventHandle struct {
	occurrences []any
	takeErr     error
	finiErr     error
	finiCount   int
}

func (h *fakeEventHandle) TakeInto(dst any) error {
	if h.takeErr != nil {
		return h.takeErr
	}

	if len(h.occurrences) == 0 {
		return errors.New("no occurrence pending")
	}

	info := h.occurrences[0]
	h.occurrences = h.occurrences[1:]
	*dst.(*middleware.DeadlineMissedInfo) =
		info.(middleware.DeadlineMissedInfo)

	return nil
}

func (h *fakeEventHandle) Fini() error {
	h.finiCount++
	return h.finiErr
}

type fakeEventSource struct {
	handle    *fakeEventHandle
	createErr error
	lastKind  middleware.EventKind
}

func (s *fakeEventSource) NewEventHandle(
	kind middleware.EventKind,
) (middleware.EventHandle, error) {
	s.lastKind = kind

	if s.createErr != nil {
		return nil, s.createErr
	}

	return s.handle, nil
}

var _ = Describe("EventHandler", func() {
	var (
		src      *fakeEventSource
		handle   *fakeEventHandle
		received []middleware.DeadlineMissedInfo
		handler  *EventHandler[middleware.DeadlineMissedInfo]
	)

	BeforeEach(func() {
		handle = &fakeEventHandle{}
		src = &fakeEventSource{handle: handle}
		received = nil

		var err error
		handler, err = NewEventHandler(src,
			middleware.EventDeadlineMissed,
			func(info middleware.DeadlineMissedInfo) {
				received = append(received, info)
			})
		Expect(err).ToNot(HaveOccurred())
		Expect(src.lastKind).To(Equal(middleware.EventDeadlineMissed))
	})

	It("should fail construction when the handle cannot be created",
		func() {
			src := &fakeEventSource{
				createErr: errors.New("unsupported event type"),
			}

			_, err := NewEventHandler(src,
				middleware.EventLivelinessLost,
				func(middleware.LivelinessLostInfo) {})

			Expect(err).To(HaveOccurred())

			var callErr *middleware.CallError
			Expect(errors.As(err, &callErr)).To(BeTrue())
		})

	It("should represent one logical event source", func() {
		Expect(handler.NumReadyEvents()).To(Equal(1))
	})

	It("should be ready only when its own slot holds its handle", func() {
		ws := middleware.NewWaitSet()
		other := &fakeEventHandle{}
		otherIdx := ws.Add(other)
		handler.AddToWaitSet(ws)

		Expect(handler.IsReady(ws)).To(BeFalse())

		ws.MarkReady(otherIdx)
		Expect(handler.IsReady(ws)).To(BeFalse())

		ws.MarkReady(1)
		Expect(handler.IsReady(ws)).To(BeTrue())
	})

	It("should not be ready before registration", func() {
		Expect(handler.IsReady(middleware.NewWaitSet())).To(BeFalse())
	})

	It("should drain one occurrence per execution", func() {
		handle.occurrences = []any{
			middleware.DeadlineMissedInfo{TotalCount: 1, TotalCountChange: 1},
			middleware.DeadlineMissedInfo{TotalCount: 2, TotalCountChange: 1},
		}

		handler.Execute()

		Expect(received).To(HaveLen(1))
		Expect(received[0].TotalCount).To(Equal(1))
		Expect(handle.occurrences).To(HaveLen(1))

		handler.Execute()

		Expect(received).To(HaveLen(2))
		Expect(received[1].TotalCount).To(Equal(2))
	})

	It("should skip the callback when the drain fails", func() {
		handle.takeErr = errors.New("handle torn down")

		handler.Execute()

		Expect(received).To(BeEmpty())
	})

	It("should finalize the handle on close", func() {
		Expect(handler.Close()).To(Succeed())
		Expect(handle.finiCount).To(Equal(1))
	})

	It("should surface a teardown failure", func() {
		handle.finiErr = errors.New("already finalized")

		Expect(handler.Close()).To(HaveOccurred())
	})
})

var _ = Describe("Entity watches", func() {
	It("should bind publisher events to the right kinds", func() {
		handle := &fakePublisherHandle{}
		pub := NewPublisher("chatter", handle)

		_, err := pub.WatchDeadlineMissed(
			func(middleware.DeadlineMissedInfo) {})
		Expect(err).ToNot(HaveOccurred())
		Expect(handle.lastKind).To(Equal(middleware.EventDeadlineMissed))

		_, err = pub.WatchLivelinessLost(
			func(middleware.LivelinessLostInfo) {})
		Expect(err).ToNot(HaveOccurred())
		Expect(handle.lastKind).To(Equal(middleware.EventLivelinessLost))
	})

	It("should bind subscription events to the right kinds", func() {
		handle := &fakeSubscriptionHandle{}
		sub := NewSubscription("chatter", handle)

		_, err := sub.WatchDeadlineMissed(
			func(middleware.DeadlineMissedInfo) {})
		Expect(err).ToNot(HaveOccurred())
		Expect(handle.lastKind).To(Equal(middleware.EventDeadlineMissed))

		_, err = sub.WatchLivelinessChanged(
			func(middleware.LivelinessChangedInfo) {})
		Expect(err).ToNot(HaveOccurred())
		Expect(handle.lastKind).To(
			Equal(middleware.EventLivelinessChanged))
	})
})
