package joystick

import (
	"fmt"
	"sort"
	"sync"
)

// Registration creates backend instances for a named backend type.
type Registration interface {
	// NewDevice returns a new backend instance configured by o.
	NewDevice(o *CreateOptions) (Device, error)
}

var (
	backendRegistry   = make(map[string]Registration)
	backendRegistryMu sync.RWMutex
)

// RegisterBackend registers a backend type for creation by name.
// This should be called from backend package init() functions.
// The name is case-insensitive and will be lowercased.
func RegisterBackend(name string, reg Registration) {
	backendRegistryMu.Lock()
	defer backendRegistryMu.Unlock()
	backendRegistry[toLower(name)] = reg
}

// GetRegistration retrieves a registered backend by name for instance
// creation. Returns nil if not found. Name lookup is case-insensitive.
func GetRegistration(name string) Registration {
	backendRegistryMu.RLock()
	defer backendRegistryMu.RUnlock()
	return backendRegistry[toLower(name)]
}

// ListBackends returns the sorted names of all registered backend types.
func ListBackends() []string {
	backendRegistryMu.RLock()
	defer backendRegistryMu.RUnlock()
	names := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDevice creates an instance of the named backend.
func NewDevice(name string, o *CreateOptions) (Device, error) {
	reg := GetRegistration(name)
	if reg == nil {
		return nil, fmt.Errorf("unknown backend %q", name)
	}
	return reg.NewDevice(o)
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
