// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sort"
	"sync"
)

// TargetFactory creates a new Target with the given options.
// Implementations should validate options and return descriptive errors.
type TargetFactory func(opts Options) (Target, error)

// RegistryEntry represents a registered target kind.
type RegistryEntry struct {
	// Name is the unique identifier for this kind.
	Name string

	// Priority determines selection order (higher = preferred).
	// Built-in priorities:
	//   - 100: window swapchain
	//   - 10: offscreen texture
	Priority int

	// Factory creates target instances.
	Factory TargetFactory

	// Available reports if the kind can be used with the given options.
	Available func(opts Options) bool
}

var globalRegistry = &Registry{}

// Registry manages registered target kinds.
//
// Example registration:
//
//	func init() {
//	    surface.Register("recorder", 50, recorderFactory, nil)
//	}
//
// Example usage:
//
//	t, err := surface.NewTargetByName("offscreen", opts)
//	// or pick the best kind for opts:
//	t, err := surface.NewTarget(opts)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewTarget.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a target kind to the global registry.
//
// If available is nil, the kind is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory TargetFactory, available func(Options) bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a kind from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered kind names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of the kinds usable with opts, sorted by priority.
func Available(opts Options) []string {
	return globalRegistry.Available(opts)
}

// Get returns information about a specific kind.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// NewTarget creates a target using the best available kind.
func NewTarget(opts Options) (Target, error) {
	return globalRegistry.NewTarget(opts)
}

// NewTargetByName creates a target of a specific kind.
func NewTargetByName(name string, opts Options) (Target, error) {
	return globalRegistry.NewTargetByName(name, opts)
}

// Register adds a kind to this registry.
func (r *Registry) Register(name string, priority int, factory TargetFactory, available func(Options) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func(Options) bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a kind from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered kind names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(nil)
}

// Available returns names of the kinds usable with opts sorted by priority.
func (r *Registry) Available(opts Options) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(&opts)
}

// Get returns information about a specific kind.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	entryCopy := *entry
	return &entryCopy, true
}

// NewTarget creates a target using the best available kind, falling back
// to lower priorities when a factory fails.
func (r *Registry) NewTarget(opts Options) (Target, error) {
	r.mu.RLock()
	available := r.sortedNames(&opts)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoTargetAvailable
	}

	var lastErr error
	for _, name := range available {
		t, err := r.NewTargetByName(name, opts)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewTargetByName creates a target of a specific kind.
func (r *Registry) NewTargetByName(name string, opts Options) (Target, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &TargetNotFoundError{Name: name}
	}

	if !entry.Available(opts) {
		return nil, &TargetUnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns kind names sorted by priority (highest first), then
// by name. If opts is non-nil, only kinds available for opts are returned.
// Must be called with lock held.
func (r *Registry) sortedNames(opts *Options) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if opts != nil && !e.Available(*opts) {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Errors.
var (
	// ErrNoTargetAvailable is returned when no registered kind can be built
	// from the given options.
	ErrNoTargetAvailable = errors.New("surface: no target available")
)

// TargetNotFoundError indicates a named kind is not registered.
type TargetNotFoundError struct {
	Name string
}

func (e *TargetNotFoundError) Error() string {
	return "surface: target not found: " + e.Name
}

// TargetUnavailableError indicates a kind exists but cannot be built from
// the given options.
type TargetUnavailableError struct {
	Name string
}

func (e *TargetUnavailableError) Error() string {
	return "surface: target unavailable: " + e.Name
}

func init() {
	Register("window", 100, func(opts Options) (Target, error) {
		return NewHALTarget(opts)
	}, func(opts Options) bool {
		return opts.Surface != nil && opts.Device != nil && opts.Queue != nil
	})
	Register("offscreen", 10, func(opts Options) (Target, error) {
		return NewOffscreen(opts.Device, opts.Width, opts.Height)
	}, func(opts Options) bool {
		return opts.Device != nil
	})
}
