package driver

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/gpumem/reservoir/memutils"
)

// simBaseAddress is where the simulated heap begins. It is deliberately far
// from anything a host pointer could collide with so that misuse is obvious
// in logs.
const simBaseAddress DevicePtr = 0x7f0000000000

type simAllocation struct {
	size    int
	charged int
	managed bool
}

// SimDevice is a host-side stand-in for a real device runtime. It hands out
// addresses from a fixed-capacity simulated heap, charges each allocation
// against that capacity, and refuses frees of pointers it never issued,
// which makes double-free and stray-free bugs visible in tests.
//
// SimDevice is safe for concurrent use.
type SimDevice struct {
	mutex sync.Mutex

	totalBytes int
	freeBytes  int
	nextPtr    DevicePtr

	allocations *swiss.Map[DevicePtr, simAllocation]
}

var _ Device = (*SimDevice)(nil)
var _ memutils.Validatable = (*SimDevice)(nil)

// NewSimDevice creates a simulated device runtime with the provided heap
// capacity in bytes.
func NewSimDevice(totalBytes int) (*SimDevice, error) {
	if totalBytes < 0 {
		return nil, errors.Newf("attempted to create a simulated device with negative capacity %d", totalBytes)
	}

	return &SimDevice{
		totalBytes:  totalBytes,
		freeBytes:   totalBytes,
		nextPtr:     simBaseAddress,
		allocations: swiss.NewMap[DevicePtr, simAllocation](61),
	}, nil
}

func (d *SimDevice) malloc(size int, managed bool) (DevicePtr, Result) {
	if size < 0 {
		return NullPtr, ErrorInvalidValue
	}

	// The real runtime rounds every request up to its allocation
	// granularity, so capacity is charged on the aligned size
	charged := memutils.AlignUp(size, MinimumAlignment)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if charged > d.freeBytes {
		return NullPtr, ErrorMemoryAllocation
	}

	ptr := d.nextPtr
	// Zero-byte requests still get a distinct, freeable address
	d.nextPtr += DevicePtr(charged) + DevicePtr(MinimumAlignment)

	d.freeBytes -= charged
	d.allocations.Put(ptr, simAllocation{
		size:    size,
		charged: charged,
		managed: managed,
	})

	memutils.DebugValidate(d)
	return ptr, Success
}

// Malloc reserves size bytes from the simulated heap. The returned address
// is aligned to MinimumAlignment.
func (d *SimDevice) Malloc(size int) (DevicePtr, Result) {
	return d.malloc(size, false)
}

// MallocManaged behaves like Malloc- the simulated heap does not
// distinguish unified memory, but the allocation is tracked as managed.
func (d *SimDevice) MallocManaged(size int) (DevicePtr, Result) {
	return d.malloc(size, true)
}

// Free returns an allocation to the simulated heap. Freeing NullPtr is a
// successful no-op. Freeing an address that was never issued, or was
// already freed, fails with ErrorInvalidValue.
func (d *SimDevice) Free(ptr DevicePtr) Result {
	if ptr == NullPtr {
		return Success
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	alloc, ok := d.allocations.Get(ptr)
	if !ok {
		return ErrorInvalidValue
	}

	d.allocations.Delete(ptr)
	d.freeBytes += alloc.charged

	memutils.DebugValidate(d)
	return Success
}

// MemGetInfo reports the simulated heap's free and total capacity.
func (d *SimDevice) MemGetInfo() (free, total int, res Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.freeBytes, d.totalBytes, Success
}

// AllocationCount returns the number of outstanding allocations.
func (d *SimDevice) AllocationCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.allocations.Count()
}

// Validate walks the allocation registry and verifies the heap accounting
// is self-consistent. It does not take the device mutex and must not race
// with concurrent Malloc/Free calls.
func (d *SimDevice) Validate() error {
	chargedBytes := 0
	d.allocations.Iter(func(ptr DevicePtr, alloc simAllocation) bool {
		chargedBytes += alloc.charged
		return false
	})

	if chargedBytes+d.freeBytes != d.totalBytes {
		return errors.Newf("simulated heap accounting is inconsistent: %d bytes charged + %d bytes free != %d bytes total",
			chargedBytes, d.freeBytes, d.totalBytes)
	}

	return nil
}
