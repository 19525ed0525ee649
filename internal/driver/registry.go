package driver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/johndauphine/db-volumetry/internal/fault"
)

// registry holds all registered drivers.
var (
	registryMu sync.RWMutex
	drivers    = make(map[Kind]Driver)
	names      = make(map[string]Kind)
)

// Register adds a driver to the global registry.
// This is typically called from a driver package's init() function.
//
// Example:
//
//	func init() {
//	    driver.Register(&Driver{})
//	}
//
// Panics if the kind or one of its names is already registered.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()

	kind := d.Kind()
	if kind == KindUnknown {
		panic("driver registered with unknown kind")
	}
	if _, exists := drivers[kind]; exists {
		panic(fmt.Sprintf("driver %q already registered", kind))
	}

	// Check every name before touching the maps so a panic leaves no partial entry.
	pending := make(map[string]bool)
	for _, name := range append([]string{kind.String()}, d.Aliases()...) {
		name = strings.ToLower(name)
		if _, exists := names[name]; exists || pending[name] {
			panic(fmt.Sprintf("driver alias %q already registered", name))
		}
		pending[name] = true
	}

	drivers[kind] = d
	for name := range pending {
		names[name] = kind
	}
}

// ParseKind resolves an engine name or alias (case-insensitive, surrounding
// space ignored). Unknown names return a fault.UnsupportedEngine error.
func ParseKind(nameOrAlias string) (Kind, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kind, exists := names[strings.ToLower(strings.TrimSpace(nameOrAlias))]
	if !exists {
		return KindUnknown, fault.Newf(fault.UnsupportedEngine, "unsupported engine",
			"%q (available: %v)", nameOrAlias, availableLocked())
	}
	return kind, nil
}

// Get retrieves the driver registered for kind.
func Get(kind Kind) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, exists := drivers[kind]
	if !exists {
		return nil, fault.Newf(fault.UnsupportedEngine, "unsupported engine",
			"%q has no registered driver (available: %v)", kind, availableLocked())
	}
	return d, nil
}

// Lookup resolves a name or alias straight to its driver.
func Lookup(nameOrAlias string) (Driver, error) {
	kind, err := ParseKind(nameOrAlias)
	if err != nil {
		return nil, err
	}
	return Get(kind)
}

// Canonicalize returns the canonical driver name for a given name or alias.
// For example, "sqlserver" returns "mssql", "postgresql" returns "postgres".
// Returns the input unchanged if no driver matches.
func Canonicalize(nameOrAlias string) string {
	kind, err := ParseKind(nameOrAlias)
	if err != nil {
		return nameOrAlias
	}
	return kind.String()
}

// Available returns a sorted list of registered canonical names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return availableLocked()
}

func availableLocked() []string {
	out := make([]string, 0, len(drivers))
	for kind := range drivers {
		out = append(out, kind.String())
	}
	sort.Strings(out)
	return out
}

// IsRegistered returns true if a driver exists for the given kind.
func IsRegistered(kind Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, exists := drivers[kind]
	return exists
}
