package source

import (
	"fmt"
	"sort"
)

// Entry pairs a portal spec with the adapter that serves it.
type Entry struct {
	Spec    Spec
	Adapter Adapter
}

// Registry maps portal ids to adapters. Built once at startup and treated as
// a read-only snapshot for the duration of every run.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty portal registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a portal to the registry. Registering the same id twice is a
// wiring bug and fails loudly.
func (r *Registry) Register(spec Spec, adapter Adapter) error {
	if spec.ID == "" {
		return fmt.Errorf("portal spec has empty id")
	}
	if adapter == nil {
		return fmt.Errorf("portal %s registered with nil adapter", spec.ID)
	}
	if _, exists := r.entries[spec.ID]; exists {
		return fmt.Errorf("portal %s already registered", spec.ID)
	}
	r.entries[spec.ID] = Entry{Spec: spec, Adapter: adapter}
	return nil
}

// Get returns the entry for a portal id.
func (r *Registry) Get(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// IDs returns all registered portal ids sorted by priority, then id. The
// priority order is the tie-break used when a run must be truncated.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.entries[ids[i]].Spec, r.entries[ids[j]].Spec
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
	return ids
}

// Len returns the number of registered portals.
func (r *Registry) Len() int {
	return len(r.entries)
}
