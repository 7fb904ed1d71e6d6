package gpu

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
)

// ErrNoBackend is returned when no registered backend can produce an instance.
var ErrNoBackend = errors.New("gpu: no backend available")

var backends = gpucontext.NewRegistry[Instance](gpucontext.WithPriority("webgpu"))

// RegisterBackend makes a backend available under name. Backend packages call this from init.
//
// Parameters:
//   - name: the backend name used for selection (e.g. "webgpu")
//   - factory: constructor returning a fresh instance, or nil if the backend is unusable on this host
func RegisterBackend(name string, factory func() Instance) {
	backends.Register(name, factory)
}

// UnregisterBackend removes a backend. It is mostly useful in tests.
func UnregisterBackend(name string) {
	backends.Unregister(name)
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	names := backends.Available()
	sort.Strings(names)
	return names
}

// NewInstance creates an instance from the named backend, or from the highest
// priority registered backend when name is empty.
//
// Parameters:
//   - name: backend name, or "" for the best available
//
// Returns:
//   - Instance: the created instance
//   - error: ErrNoBackend if nothing matched or the factory returned nil
func NewInstance(name string) (Instance, error) {
	if name == "" {
		name = backends.BestName()
	}
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %q not registered (have %v)", ErrNoBackend, name, Backends())
	}
	inst := backends.Get(name)
	if inst == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoBackend, name)
	}
	return inst, nil
}
