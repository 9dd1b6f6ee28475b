package memres

import (
	"github.com/gpumem/reservoir/driver"
)

// ManagedResource allocates unified memory visible to both host and device
// via the runtime's managed allocator. Like DeviceResource it is
// synchronous and stateless: it forwards every call, ignores stream tokens,
// and considers any other ManagedResource over the same runtime
// interchangeable.
//
// ManagedResource is never equal to a DeviceResource, even over the same
// runtime- the two variants allocate from differently-behaved heaps.
type ManagedResource struct {
	device driver.Device
}

var _ Resource = (*ManagedResource)(nil)

// NewManagedResource creates a ManagedResource forwarding to the provided
// device runtime.
func NewManagedResource(device driver.Device) *ManagedResource {
	return &ManagedResource{
		device: device,
	}
}

// SupportsStreams returns false.
func (r *ManagedResource) SupportsStreams() bool {
	return false
}

// SupportsGetMemInfo returns true.
func (r *ManagedResource) SupportsGetMemInfo() bool {
	return true
}

// Allocate reserves size bytes of unified memory. The stream argument is
// ignored.
func (r *ManagedResource) Allocate(size int, stream driver.Stream) (driver.DevicePtr, error) {
	ptr, res := r.device.MallocManaged(size)
	if res != driver.Success {
		return driver.NullPtr, &AllocationError{Size: size, Result: res}
	}

	return ptr, nil
}

// Deallocate returns a block of unified memory. The stream argument is
// ignored. A runtime failure here panics- see Resource.Deallocate.
func (r *ManagedResource) Deallocate(ptr driver.DevicePtr, size int, stream driver.Stream) {
	res := r.device.Free(ptr)
	if res != driver.Success {
		panic(deallocFailure(ptr, size, res))
	}
}

// GetMemInfo queries the device runtime for current free and total heap
// capacity. The stream argument is ignored.
func (r *ManagedResource) GetMemInfo(stream driver.Stream) (free, total int, err error) {
	free, total, res := r.device.MemGetInfo()
	if res != driver.Success {
		return 0, 0, &QueryError{Result: res}
	}

	return free, total, nil
}

// IsEqual reports true only for another ManagedResource over the same
// device runtime. Decorators wrapping a ManagedResource compare by what
// they wrap.
func (r *ManagedResource) IsEqual(other Resource) bool {
	otherManaged, ok := unwrapResource(other).(*ManagedResource)
	return ok && otherManaged.device == r.device
}
