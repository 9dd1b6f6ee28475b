package memres

import (
	"github.com/gpumem/reservoir/driver"
)

// Resource is the contract every device memory allocator variant satisfies.
// A caller holds some Resource- raw device, managed memory, or a decorator
// wrapping another Resource- and allocates and frees device memory through
// it without knowing which strategy is underneath.
//
// Memory obtained from one Resource may only be returned through another if
// the two report IsEqual true- that predicate is the sole authority on
// cross-resource deallocation.
type Resource interface {
	// Allocate reserves a block of at least size bytes, aligned to at
	// least driver.MinimumAlignment, ordered against stream if the
	// resource supports streams. A size of zero succeeds and returns a
	// block that Deallocate accepts with size zero. On failure the error
	// is an *AllocationError- Allocate never returns an invalid block
	// alongside a nil error.
	Allocate(size int, stream driver.Stream) (driver.DevicePtr, error)

	// Deallocate returns a block obtained from Allocate. size must equal
	// the value passed to the corresponding Allocate call- a mismatch is
	// undefined behavior that is not detected here. Deallocate does not
	// fail: if the device runtime rejects the free, the allocator's
	// bookkeeping can no longer be trusted and Deallocate panics rather
	// than letting the caller continue over corrupted state.
	Deallocate(ptr driver.DevicePtr, size int, stream driver.Stream)

	// SupportsStreams reports whether stream arguments order allocation
	// and deallocation. Resources that return false still accept any
	// stream token- the argument is ignored, never rejected. The result
	// is constant for the lifetime of the resource.
	SupportsStreams() bool

	// SupportsGetMemInfo reports whether GetMemInfo is implemented. The
	// result is constant for the lifetime of the resource.
	SupportsGetMemInfo() bool

	// GetMemInfo reports the free and total byte capacity of the memory
	// this resource draws from, valid only at the instant of the call.
	// On failure the error is a *QueryError. When SupportsGetMemInfo
	// is false the call reports a *QueryError carrying
	// driver.ErrorNotSupported rather than crashing.
	GetMemInfo(stream driver.Stream) (free, total int, err error)

	// IsEqual reports whether memory allocated through this resource may
	// be safely deallocated through other and vice versa. The relation
	// is symmetric: it depends on the variant and configuration of the
	// two resources, never on any single allocation.
	IsEqual(other Resource) bool
}

// wrappingResource is satisfied by decorator variants that forward
// allocation to another Resource.
type wrappingResource interface {
	Upstream() Resource
}

// unwrapResource strips decorator layers until it reaches the resource that
// actually services allocations. Equality predicates compare at that level
// so that decorating a resource never changes which memory it can free.
func unwrapResource(resource Resource) Resource {
	for {
		wrapper, ok := resource.(wrappingResource)
		if !ok {
			return resource
		}
		resource = wrapper.Upstream()
	}
}
