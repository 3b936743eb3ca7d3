package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// Registry maps names to machine definitions.
// Definitions are immutable, so handing the same pointer to many callers is safe.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]*machine.Definition
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		machines: make(map[string]*machine.Definition),
	}
}

// Register adds a machine to the registry.
// If a machine with the same name exists, it is overwritten.
func (r *Registry) Register(name string, def *machine.Definition) error {
	if name == "" {
		return fmt.Errorf("machine name cannot be empty")
	}
	if def == nil {
		return fmt.Errorf("machine %q: nil definition", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[name] = def
	return nil
}

// Get looks up a machine by name.
// Returns an error wrapping domain.ErrMachineNotFound if the machine is not registered.
func (r *Registry) Get(name string) (*machine.Definition, error) {
	r.mu.RLock()
	def, ok := r.machines[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return def, nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
