package grove

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Directory maps container names to containers and tracks the active one.
// A Directory accepts exactly one [Directory.Create] call over its lifetime;
// there is no way to remove or replace the active container.
//
// Most programs use the process-wide directory returned by
// [DefaultDirectory]. Separate directories are useful in tests.
type Directory struct {
	mu         sync.Mutex
	containers map[string]Container

	// active is written once, under mu, by Create. Reads are lock-free.
	active atomic.Pointer[activeContainer]
}

type activeContainer struct {
	name      string
	container Container
}

var defaultDirectory = NewDirectory()

// DefaultDirectory returns the process-wide directory used by package
// global and package inject.
func DefaultDirectory() *Directory {
	return defaultDirectory
}

// NewDirectory returns an empty directory. It is meant for tests and for
// embedders that manage their own container; the single container per
// process holds for [DefaultDirectory], the only directory package global
// and package inject read from.
func NewDirectory() *Directory {
	return &Directory{containers: make(map[string]Container)}
}

// Create installs c under name and marks it active. A nil c installs a
// container from [New]. It fails with [ErrConfiguration] for an empty name
// and with [ErrAlreadyInitialized] once any container has been created.
func (d *Directory) Create(name string, c Container) (Container, error) {
	return d.CreateWith(name, func() Container { return c })
}

// CreateWith is like [Directory.Create] but calls build only after the name
// has been accepted, so a failed call constructs nothing. A nil build, or a
// nil result, installs a container from [New].
func (d *Directory) CreateWith(name string, build func() Container) (Container, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: container name cannot be empty", ErrConfiguration)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.containers[name]; exists {
		return nil, fmt.Errorf("%w: container %q already exists", ErrAlreadyInitialized, name)
	}
	if a := d.active.Load(); a != nil {
		return nil, fmt.Errorf("%w: container %q is already active, only one is allowed", ErrAlreadyInitialized, a.name)
	}

	var c Container
	if build != nil {
		c = build()
	}
	if c == nil {
		c = New()
	}
	d.containers[name] = c
	d.active.Store(&activeContainer{name: name, container: c})

	return c, nil
}

// Lookup returns the container created under name.
func (d *Directory) Lookup(name string) (Container, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: no container named %q", ErrNotInitialized, name)
	}
	return c, nil
}

// Active returns the active container.
func (d *Directory) Active() (Container, error) {
	a := d.active.Load()
	if a == nil {
		return nil, fmt.Errorf("%w: no active container", ErrNotInitialized)
	}
	return a.container, nil
}

// ActiveName returns the name of the active container, or "" if none has
// been created.
func (d *Directory) ActiveName() string {
	if a := d.active.Load(); a != nil {
		return a.name
	}
	return ""
}
