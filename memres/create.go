package memres

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gpumem/reservoir/driver"
	"golang.org/x/exp/slog"
)

// CreateFlags select which allocator variant New builds and which
// decorators it applies
type CreateFlags int32

var createFlagsMapping = make(map[CreateFlags]string)

func (f CreateFlags) Register(str string) {
	createFlagsMapping[f] = str
}

func (f CreateFlags) String() string {
	if f == 0 {
		return ""
	}

	var builder strings.Builder
	for bit := CreateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit == 0 {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteByte('|')
		}
		builder.WriteString(createFlagsMapping[bit])
	}

	return builder.String()
}

const (
	// CreatePoolAllocation requests a pooling allocation strategy. No pool
	// variant ships with this package, so New reports an error for it-
	// the flag exists so configuration layers can express the request and
	// get a diagnosable answer rather than silently falling back.
	CreatePoolAllocation CreateFlags = 1 << iota
	// CreateManagedMemory builds a ManagedResource instead of a
	// DeviceResource
	CreateManagedMemory
	// CreateDebugLogging wraps the resource in a LoggingResource. Logging
	// every memory event has significant performance impact.
	CreateDebugLogging
	// CreateExternallySynchronized disables internal locking in decorators
	// that have any. The consumer must guarantee resources are used from
	// only one goroutine at a time or are synchronized by some other
	// mechanism.
	CreateExternallySynchronized
)

func init() {
	CreatePoolAllocation.Register("CreatePoolAllocation")
	CreateManagedMemory.Register("CreateManagedMemory")
	CreateDebugLogging.Register("CreateDebugLogging")
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}

// CreateOptions contains optional settings when creating a resource
type CreateOptions struct {
	// Flags selects the allocator variant and decorators
	Flags CreateFlags

	// InitialPoolSize is only meaningful together with
	// CreatePoolAllocation
	InitialPoolSize int

	// LoggingOptions applies when CreateDebugLogging is set
	LoggingOptions LoggingResourceOptions
}

// New creates a resource over the provided device runtime.
//
// logger - Receives Debug-level memory events when CreateDebugLogging is
// set. It is valid to pass a logger with any handler; nothing is logged
// unless a logging decorator is requested.
//
// device - The device runtime that will service allocations
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, device driver.Device, options CreateOptions) (Resource, error) {
	if device == nil {
		return nil, errors.New("attempted to create a resource with a nil device runtime")
	}

	if options.Flags&CreatePoolAllocation != 0 {
		return nil, errors.Newf("pool allocation is not provided by this package: flags were %s", options.Flags.String())
	}

	if options.InitialPoolSize != 0 {
		return nil, errors.New("CreateOptions.InitialPoolSize was provided, but CreatePoolAllocation is not supported")
	}

	var resource Resource
	if options.Flags&CreateManagedMemory != 0 {
		resource = NewManagedResource(device)
	} else {
		resource = NewDeviceResource(device)
	}

	if options.Flags&CreateDebugLogging != 0 {
		resource = NewLoggingResource(logger, resource, options.LoggingOptions)
	}

	return resource, nil
}
