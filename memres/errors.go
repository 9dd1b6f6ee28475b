package memres

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gpumem/reservoir/driver"
)

// AllocationError is returned from Resource.Allocate when the request could
// not be satisfied. It is recoverable- the caller may retry, fall back to a
// different resource, or propagate it.
type AllocationError struct {
	// Size is the number of bytes that were requested
	Size int
	// Result is the device runtime code that failed the request
	Result driver.Result
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to allocate %d bytes of device memory: %s", e.Size, e.Result.String())
}

// QueryError is returned from Resource.GetMemInfo when the device runtime
// could not report capacity. Callers should treat the information as
// unavailable.
type QueryError struct {
	// Result is the device runtime code that failed the query
	Result driver.Result
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to query device memory info: %s", e.Result.String())
}

// deallocFailure builds the panic value raised when the device runtime
// rejects a free. A failed free means the runtime's bookkeeping is
// corrupted or the caller double-freed or passed a mismatched size- none
// of which can be recovered by continuing.
func deallocFailure(ptr driver.DevicePtr, size int, res driver.Result) error {
	return errors.Wrapf(res.ToError(),
		"device free of %d bytes at %#x failed- allocator state is no longer trustworthy",
		size, uintptr(ptr))
}
