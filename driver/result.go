package driver

import (
	"github.com/cockroachdb/errors"
)

// Result is a status code returned from the device runtime. It mirrors the
// runtime's own error enumeration closely enough that backends can map their
// native codes onto it without loss.
type Result int

const (
	// Success indicates the runtime completed the request
	Success Result = iota
	// ErrorMemoryAllocation indicates the runtime could not satisfy an
	// allocation request, usually because the device heap is exhausted
	ErrorMemoryAllocation
	// ErrorInvalidValue indicates the runtime rejected an argument- for
	// Free, this usually means a pointer that was never allocated or was
	// already returned
	ErrorInvalidValue
	// ErrorNotSupported indicates the backend does not implement the
	// requested primitive
	ErrorNotSupported
	// ErrorUnknown indicates an unclassified runtime failure
	ErrorUnknown
)

var resultMapping = make(map[Result]string)

func (r Result) String() string {
	str, ok := resultMapping[r]
	if !ok {
		return "unknown device result"
	}
	return str
}

func init() {
	resultMapping[Success] = "Success"
	resultMapping[ErrorMemoryAllocation] = "ErrorMemoryAllocation"
	resultMapping[ErrorInvalidValue] = "ErrorInvalidValue"
	resultMapping[ErrorNotSupported] = "ErrorNotSupported"
	resultMapping[ErrorUnknown] = "ErrorUnknown"
}

// ToError returns nil for Success and an error describing the code for
// every other Result.
func (r Result) ToError() error {
	if r == Success {
		return nil
	}

	return errors.Newf("device runtime error: %s", r.String())
}
