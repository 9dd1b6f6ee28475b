package driver

// DevicePtr is an opaque address within a device heap. It is not a host
// pointer and must never be dereferenced- it only has meaning to the Device
// that issued it.
type DevicePtr uintptr

// NullPtr is the zero device address. Free must accept it as a no-op.
const NullPtr DevicePtr = 0

// Stream is an opaque execution stream token. Backends that order work
// against streams interpret it; backends that do not must accept any value
// without failing.
type Stream uintptr

// DefaultStream is the runtime's default execution stream.
const DefaultStream Stream = 0

// MinimumAlignment is the alignment guarantee every Device must provide on
// pointers returned from Malloc and MallocManaged.
const MinimumAlignment uint = 256

// Device is the raw allocation capability of a device runtime. It is the
// only boundary this library has with the underlying hardware: a resource
// holds a Device and forwards to it, so the whole allocation stack can run
// against a substitute backend.
//
// Implementations must be safe for concurrent use- resources add no locking
// of their own. Returned pointers must be aligned to MinimumAlignment.
//
// Malloc(0) and MallocManaged(0) must return Success together with a
// handle (possibly NullPtr) that Free accepts. Free(NullPtr) must return
// Success without touching the heap.
type Device interface {
	// Malloc reserves size bytes of device memory
	Malloc(size int) (DevicePtr, Result)
	// MallocManaged reserves size bytes of unified memory accessible from
	// both host and device
	MallocManaged(size int) (DevicePtr, Result)
	// Free returns memory obtained from Malloc or MallocManaged
	Free(ptr DevicePtr) Result
	// MemGetInfo reports the free and total byte capacity of the device
	// heap at the moment of the call
	MemGetInfo() (free, total int, res Result)
}
