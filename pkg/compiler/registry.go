package compiler

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores compilers by name, providing discovery and duplication
// safeguards. The zero value is not usable; construct with NewRegistry or
// DefaultRegistry.
type Registry struct {
	mu        sync.RWMutex
	compilers map[string]Compiler
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		compilers: make(map[string]Compiler),
	}
}

// DefaultRegistry returns a registry preloaded with the TeX Live engines.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(PDFLaTeX())
	r.MustRegister(XeLaTeX())
	r.MustRegister(LuaLaTeX())
	return r
}

// Register adds a compiler by its Name(). Duplicate names return an error.
func (r *Registry) Register(c Compiler) error {
	if c == nil {
		return fmt.Errorf("compiler: compiler is required")
	}
	name := c.Name()
	if name == "" {
		return fmt.Errorf("compiler: compiler name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.compilers[name]; exists {
		return fmt.Errorf("compiler: %q already registered", name)
	}

	r.compilers[name] = c
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(c Compiler) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a compiler by name.
func (r *Registry) Get(name string) (Compiler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.compilers[name]
	if !ok {
		return nil, fmt.Errorf("compiler: %q not found", name)
	}
	return c, nil
}

// List returns a sorted list of compiler names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.compilers))
	for name := range r.compilers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a compiler is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.compilers[name]
	return ok
}
