package adapter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores style adapters by key. The first registered adapter becomes
// active until SetActive selects another one.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]StyleAdapter
	active   string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]StyleAdapter),
	}
}

// NewDefaultRegistry returns a registry holding the built-in adapters with
// Foundation 5 active.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewFoundation5())
	r.MustRegister(NewBootstrap3())
	return r
}

// Register adds an adapter by its Key(). Duplicate keys return an error.
func (r *Registry) Register(adapter StyleAdapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter: style adapter is required")
	}
	key := normalizeKey(adapter.Key())
	if key == "" {
		return fmt.Errorf("adapter: style adapter key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[key]; exists {
		return fmt.Errorf("adapter: style adapter %q already registered", key)
	}

	r.adapters[key] = adapter
	if r.active == "" {
		r.active = key
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(adapter StyleAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by key.
func (r *Registry) Get(key string) (StyleAdapter, error) {
	normalized := normalizeKey(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[normalized]
	if !ok {
		return nil, fmt.Errorf("adapter: style adapter %q not found", normalized)
	}
	return adapter, nil
}

// SetActive selects the adapter used by Active.
func (r *Registry) SetActive(key string) error {
	normalized := normalizeKey(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.adapters[normalized]; !ok {
		return fmt.Errorf("adapter: style adapter %q not found", normalized)
	}
	r.active = normalized
	return nil
}

// Active returns the selected adapter.
func (r *Registry) Active() (StyleAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == "" {
		return nil, fmt.Errorf("adapter: no style adapter registered")
	}
	return r.adapters[r.active], nil
}

// ActiveKey returns the key of the selected adapter, or "".
func (r *Registry) ActiveKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// List returns a sorted list of adapter keys.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.adapters))
	for key := range r.adapters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether an adapter is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.adapters[normalizeKey(key)]
	return ok
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
