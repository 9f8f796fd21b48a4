package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the declared models, keyed by table name.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Register adds m to the registry. It fails with ErrModelExists when a model
// with the same name is already registered.
func (r *Registry) Register(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[m.name]; ok {
		return fmt.Errorf("%w: %s", ErrModelExists, m.name)
	}
	r.models[m.name] = m
	return nil
}

// Model returns the registered model called name.
func (r *Registry) Model(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for n := range r.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EnsureTables bootstraps the table of every registered model in name
// order, stopping at the first error.
func (r *Registry) EnsureTables(ctx context.Context) error {
	for _, name := range r.Names() {
		m, _ := r.Model(name)
		if _, err := m.EnsureTable(ctx); err != nil {
			return err
		}
	}
	return nil
}
