package defaults

import (
	"strconv"
	"strings"
)

// Registry is the named converter store shared by every node of one parser
// tree. Converters are looked up by name at parse time, so replacing a
// registration through Swap affects all nodes at once.
type Registry struct {
	converters map[string]Converter
}

func newRegistry() *Registry {
	return &Registry{
		converters: map[string]Converter{
			TypeString: func(s string) (any, error) { return s, nil },
			TypeStrip:  func(s string) (any, error) { return strings.TrimSpace(s), nil },
			TypeInt: func(s string) (any, error) {
				i, err := strconv.Atoi(s)
				if err != nil {
					return nil, err
				}
				return i, nil
			},
		},
	}
}

// Register adds or replaces the converter stored under the given name.
func (r *Registry) Register(name string, conv Converter) {
	r.converters[name] = conv
}

// Lookup returns the converter stored under the given name.
func (r *Registry) Lookup(name string) (Converter, bool) {
	conv, ok := r.converters[name]
	return conv, ok
}

// Swap replaces the converter stored under the given name and returns a
// guard that puts the previous registration back. The guard's Restore must
// run on every exit path of the scope that called Swap (i.e. via defer).
func (r *Registry) Swap(name string, conv Converter) *RegistryGuard {
	guard := &RegistryGuard{registry: r, saved: map[string]Converter{name: r.converters[name]}}
	r.converters[name] = conv
	return guard
}

// SwapAll replaces every registered converter with the given one, returning
// a single guard that restores all previous registrations.
func (r *Registry) SwapAll(conv Converter) *RegistryGuard {
	guard := &RegistryGuard{registry: r, saved: make(map[string]Converter, len(r.converters))}
	for name, prev := range r.converters {
		guard.saved[name] = prev
		r.converters[name] = conv
	}
	return guard
}

// RegistryGuard restores converter registrations captured by Swap or
// SwapAll. Restore is idempotent.
type RegistryGuard struct {
	registry *Registry
	saved    map[string]Converter
}

func (g *RegistryGuard) Restore() {
	for name, prev := range g.saved {
		if prev == nil {
			delete(g.registry.converters, name)
		} else {
			g.registry.converters[name] = prev
		}
	}
	g.saved = nil
}
