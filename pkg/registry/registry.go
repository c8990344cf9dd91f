// Package registry holds named machine definitions that can be instantiated
// on demand by the REPL and the network adapters.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/dsl"
)

// ErrNotFound is returned when no machine is registered under a name.
var ErrNotFound = errors.New("machine not found")

// Definition builds a fresh machine description each time it is called.
type Definition func() *dsl.Builder

// Entry describes a registered machine.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	define      Definition
}

// Registry manages the available machines.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		machines: make(map[string]Entry),
	}
}

// Register adds a machine to the registry.
// If a machine with the same name exists, it is overwritten.
func (r *Registry) Register(name, description string, define Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[name] = Entry{Name: name, Description: description, define: define}
}

// Build looks up a machine by name and compiles a new engine for it.
func (r *Registry) Build(name string, opts ...turing.Option) (*turing.Engine, error) {
	r.mu.RLock()
	entry, ok := r.machines[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	engine, err := entry.define().Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return engine, nil
}

// List returns the registered entries sorted by name.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.machines))
	for _, e := range r.machines {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}
