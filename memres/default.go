package memres

import (
	"sync"

	"github.com/gpumem/reservoir/driver"
	"golang.org/x/exp/slog"
)

var (
	defaultMutex    sync.RWMutex
	defaultResource Resource
)

// Init builds a resource via New and installs it as the process default,
// replacing any previous default. Memory allocated through a previous
// default must not be freed through the new one unless the two are equal.
func Init(logger *slog.Logger, device driver.Device, options CreateOptions) error {
	resource, err := New(logger, device, options)
	if err != nil {
		return err
	}

	SetDefault(resource)
	return nil
}

// Finalize clears the process default resource.
func Finalize() {
	SetDefault(nil)
}

// IsInitialized reports whether a process default resource is installed.
func IsInitialized() bool {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultResource != nil
}

// Default returns the process default resource, or nil if none has been
// installed.
func Default() Resource {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultResource
}

// SetDefault installs resource as the process default and returns the
// previous default, which may be nil.
func SetDefault(resource Resource) Resource {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()

	previous := defaultResource
	defaultResource = resource
	return previous
}
