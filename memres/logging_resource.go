package memres

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gpumem/reservoir/driver"
	"golang.org/x/exp/slog"
)

// LoggingResourceOptions contains optional settings when creating a
// LoggingResource
type LoggingResourceOptions struct {
	// CaptureBacktraces attaches a captured call stack to the log record
	// emitted when an allocation fails. Backtrace capture is expensive and
	// never runs on successful calls.
	CaptureBacktraces bool
}

type memoryEventKind int

const (
	memoryEventAllocate memoryEventKind = iota
	memoryEventAllocateFailure
	memoryEventFree
)

var memoryEventKindMapping = make(map[memoryEventKind]string)

func (k memoryEventKind) String() string {
	return memoryEventKindMapping[k]
}

func init() {
	memoryEventKindMapping[memoryEventAllocate] = "allocate"
	memoryEventKindMapping[memoryEventAllocateFailure] = "allocate failure"
	memoryEventKindMapping[memoryEventFree] = "free"
}

type memoryEvent struct {
	kind      memoryEventKind
	ptr       driver.DevicePtr
	size      int
	stream    driver.Stream
	timestamp time.Time
}

// LoggingResource is a decorator that records every allocation and
// deallocation passing through the wrapped resource. Events are emitted at
// Debug level on the provided logger and retained in memory for export via
// CSVLog.
//
// Memory allocated through a LoggingResource is interchangeable with memory
// allocated through whatever it wraps- equality delegates to the wrapped
// resource.
type LoggingResource struct {
	upstream Resource
	logger   *slog.Logger
	options  LoggingResourceOptions

	eventsMutex sync.Mutex
	events      []memoryEvent
}

var _ Resource = (*LoggingResource)(nil)

// NewLoggingResource creates a LoggingResource wrapping upstream and
// logging to logger.
func NewLoggingResource(logger *slog.Logger, upstream Resource, options LoggingResourceOptions) *LoggingResource {
	return &LoggingResource{
		upstream: upstream,
		logger:   logger,
		options:  options,
	}
}

// Upstream returns the resource this decorator wraps.
func (r *LoggingResource) Upstream() Resource {
	return r.upstream
}

func (r *LoggingResource) recordEvent(kind memoryEventKind, ptr driver.DevicePtr, size int, stream driver.Stream) {
	r.eventsMutex.Lock()
	defer r.eventsMutex.Unlock()

	r.events = append(r.events, memoryEvent{
		kind:      kind,
		ptr:       ptr,
		size:      size,
		stream:    stream,
		timestamp: time.Now(),
	})
}

// SupportsStreams reports whether the wrapped resource orders against
// streams.
func (r *LoggingResource) SupportsStreams() bool {
	return r.upstream.SupportsStreams()
}

// SupportsGetMemInfo reports whether the wrapped resource implements
// GetMemInfo.
func (r *LoggingResource) SupportsGetMemInfo() bool {
	return r.upstream.SupportsGetMemInfo()
}

// Allocate forwards to the wrapped resource and records the outcome.
func (r *LoggingResource) Allocate(size int, stream driver.Stream) (driver.DevicePtr, error) {
	ptr, err := r.upstream.Allocate(size, stream)
	if err != nil {
		r.recordEvent(memoryEventAllocateFailure, driver.NullPtr, size, stream)

		if r.options.CaptureBacktraces {
			r.logger.Error("LoggingResource::Allocate FAILED",
				slog.Int("size", size),
				slog.Any("error", err),
				slog.String("backtrace", string(debug.Stack())),
			)
		} else {
			r.logger.Error("LoggingResource::Allocate FAILED",
				slog.Int("size", size),
				slog.Any("error", err),
			)
		}
		return ptr, err
	}

	r.recordEvent(memoryEventAllocate, ptr, size, stream)
	r.logger.Debug("LoggingResource::Allocate",
		slog.Int("size", size),
		slog.Uint64("ptr", uint64(ptr)),
	)
	return ptr, nil
}

// Deallocate forwards to the wrapped resource and records the event.
func (r *LoggingResource) Deallocate(ptr driver.DevicePtr, size int, stream driver.Stream) {
	r.upstream.Deallocate(ptr, size, stream)

	r.recordEvent(memoryEventFree, ptr, size, stream)
	r.logger.Debug("LoggingResource::Deallocate",
		slog.Int("size", size),
		slog.Uint64("ptr", uint64(ptr)),
	)
}

// GetMemInfo forwards to the wrapped resource.
func (r *LoggingResource) GetMemInfo(stream driver.Stream) (free, total int, err error) {
	return r.upstream.GetMemInfo(stream)
}

// IsEqual delegates to the wrapped resource: a LoggingResource is
// interchangeable with anything its upstream is interchangeable with,
// decorators included.
func (r *LoggingResource) IsEqual(other Resource) bool {
	return r.upstream.IsEqual(unwrapResource(other))
}

// CSVLog renders the recorded event history as CSV, one row per event in
// the order they occurred.
func (r *LoggingResource) CSVLog() string {
	r.eventsMutex.Lock()
	defer r.eventsMutex.Unlock()

	var builder strings.Builder
	builder.WriteString("Event Type,Address,Stream,Size (bytes),Timestamp\n")

	for eventIndex := 0; eventIndex < len(r.events); eventIndex++ {
		event := r.events[eventIndex]
		fmt.Fprintf(&builder, "%s,%#x,%d,%d,%s\n",
			event.kind.String(),
			uintptr(event.ptr),
			uintptr(event.stream),
			event.size,
			event.timestamp.Format(time.RFC3339Nano),
		)
	}

	return builder.String()
}
