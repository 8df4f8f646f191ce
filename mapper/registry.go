package mapper

import (
	"fmt"
	"sync"
)

// Registry holds configurations by key. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[Key]*Configuration
	order   []Key
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[Key]*Configuration)}
}

// Lookup returns the configuration registered under key.
func (r *Registry) Lookup(key Key) (*Configuration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.configs[key]

	return c, ok
}

// GetOrCreate returns the configuration under key, registering the result
// of create when there is none. created reports whether create was used.
func (r *Registry) GetOrCreate(key Key, create func() *Configuration) (cfg *Configuration, created bool) {
	if c, ok := r.Lookup(key); ok {
		return c, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.configs[key]; ok {
		return c, false
	}

	c := create()
	r.configs[key] = c
	r.order = append(r.order, key)

	return c, true
}

// Register adds cfg. It fails when its key is taken.
func (r *Registry) Register(cfg *Configuration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.key]; ok {
		return fmt.Errorf("%w: %s", ErrMapperAlreadyExists, cfg.key)
	}

	r.configs[cfg.key] = cfg
	r.order = append(r.order, cfg.key)

	return nil
}

// All returns the configurations in registration order.
func (r *Registry) All() []*Configuration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Configuration, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.configs[k])
	}

	return out
}

// Len returns the number of configurations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Reset removes every configuration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs = make(map[Key]*Configuration)
	r.order = nil
}
