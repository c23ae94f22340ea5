package pubsub

// An Allocator supplies fallback message memory when the middleware cannot
// loan messages from its own pool.
type Allocator[T any] interface {
	Allocate() *T
	Deallocate(msg *T)
}

// HeapAllocator is the default allocator, backed by the Go heap.
type HeapAllocator[T any] struct{}

// Allocate returns a zeroed message instance.
func (HeapAllocator[T]) Allocate() *T {
	return new(T)
}

// Deallocate releases the message. Heap memory is garbage collected, so this
// only severs the reference.
func (HeapAllocator[T]) Deallocate(_ *T) {}
