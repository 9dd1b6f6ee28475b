package memres

import (
	"github.com/gpumem/reservoir/driver"
)

// DeviceResource is the minimal synchronous allocator variant: every call
// forwards directly to the device runtime's global allocator. It carries no
// state beyond the runtime handle it forwards to, so any two instances over
// the same runtime are interchangeable.
//
// DeviceResource ignores stream tokens entirely- it provides no ordering
// between allocation and use of the same memory on different streams.
type DeviceResource struct {
	device driver.Device
}

var _ Resource = (*DeviceResource)(nil)

// NewDeviceResource creates a DeviceResource forwarding to the provided
// device runtime.
func NewDeviceResource(device driver.Device) *DeviceResource {
	return &DeviceResource{
		device: device,
	}
}

// SupportsStreams returns false: this variant is always synchronous and
// accepts stream tokens only to ignore them.
func (r *DeviceResource) SupportsStreams() bool {
	return false
}

// SupportsGetMemInfo returns true.
func (r *DeviceResource) SupportsGetMemInfo() bool {
	return true
}

// Allocate reserves size bytes from the device runtime's global allocator.
// The stream argument is ignored.
func (r *DeviceResource) Allocate(size int, stream driver.Stream) (driver.DevicePtr, error) {
	ptr, res := r.device.Malloc(size)
	if res != driver.Success {
		return driver.NullPtr, &AllocationError{Size: size, Result: res}
	}

	return ptr, nil
}

// Deallocate returns a block to the device runtime's global allocator. The
// stream argument is ignored. A runtime failure here panics- see
// Resource.Deallocate.
func (r *DeviceResource) Deallocate(ptr driver.DevicePtr, size int, stream driver.Stream) {
	res := r.device.Free(ptr)
	if res != driver.Success {
		panic(deallocFailure(ptr, size, res))
	}
}

// GetMemInfo queries the device runtime for current free and total heap
// capacity. The stream argument is ignored.
func (r *DeviceResource) GetMemInfo(stream driver.Stream) (free, total int, err error) {
	free, total, res := r.device.MemGetInfo()
	if res != driver.Success {
		return 0, 0, &QueryError{Result: res}
	}

	return free, total, nil
}

// IsEqual reports true for any other DeviceResource over the same device
// runtime- all such instances draw from the same global heap, so any one
// may free memory another allocated. Instances over different runtimes and
// other variants compare false. Decorators wrapping a DeviceResource
// compare by what they wrap, keeping the relation symmetric.
func (r *DeviceResource) IsEqual(other Resource) bool {
	otherDevice, ok := unwrapResource(other).(*DeviceResource)
	return ok && otherDevice.device == r.device
}
