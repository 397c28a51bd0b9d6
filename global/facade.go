package global

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ARTM2000/grove"
	"github.com/ARTM2000/grove/config"
)

// ErrContainerNotInitialized is returned by every facade operation before
// [Create] has succeeded. It wraps [grove.ErrNotInitialized].
var ErrContainerNotInitialized = fmt.Errorf("%w: create the container first", grove.ErrNotInitialized)

// Facade forwards to the active container of a [grove.Directory].
// Mutations are serialized by a single facade-wide lock; resolutions take
// no facade lock.
type Facade struct {
	dir *grove.Directory

	// mu serializes Register, DeRegister and Clear.
	mu sync.Mutex

	logMu sync.RWMutex
	log   *zap.Logger
}

// NewFacade returns a facade over dir.
func NewFacade(dir *grove.Directory) *Facade {
	return &Facade{dir: dir, log: zap.NewNop()}
}

// CreateOption configures [Facade.Create].
type CreateOption func(*createOptions)

type createOptions struct {
	container     grove.Container
	containerOpts []grove.ContainerOption
	log           *zap.Logger
}

// UseContainer installs c instead of a container from [grove.New].
// Container options are ignored when it is set.
func UseContainer(c grove.Container) CreateOption {
	return func(o *createOptions) {
		o.container = c
	}
}

// WithContainerOptions passes opts to [grove.New] for the default container.
func WithContainerOptions(opts ...grove.ContainerOption) CreateOption {
	return func(o *createOptions) {
		o.containerOpts = append(o.containerOpts, opts...)
	}
}

// WithLogger sets the logger for the facade and for the default container.
func WithLogger(l *zap.Logger) CreateOption {
	return func(o *createOptions) {
		o.log = l
	}
}

// Create creates the container for f's directory and marks it active.
func (f *Facade) Create(name string, opts ...CreateOption) (grove.Container, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	// A rejected name must not construct a container or register its
	// collectors.
	created, err := f.dir.CreateWith(name, func() grove.Container {
		if o.container != nil {
			return o.container
		}
		copts := o.containerOpts
		if o.log != nil {
			copts = append([]grove.ContainerOption{grove.WithLogger(o.log)}, copts...)
		}
		return grove.New(copts...)
	})
	if err != nil {
		return nil, err
	}

	if o.log != nil {
		f.logMu.Lock()
		f.log = o.log
		f.logMu.Unlock()
	}
	f.logger().Info("grove: container created", zap.String("container", name))

	return created, nil
}

// CreateFromConfig validates cfg and creates the container with the
// configured name. Unless opts supply a logger, one is built from cfg. When
// cfg.Metrics is set the collectors are registered with
// [prometheus.DefaultRegisterer]. opts are applied after the derived
// options.
func (f *Facade) CreateFromConfig(cfg *config.Config, opts ...CreateOption) (grove.Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", grove.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var supplied createOptions
	for _, opt := range opts {
		opt(&supplied)
	}

	var derived []CreateOption
	if supplied.log == nil {
		log, err := cfg.NewLogger()
		if err != nil {
			return nil, err
		}
		derived = append(derived, WithLogger(log))
	}
	if cfg.Metrics {
		derived = append(derived, WithContainerOptions(grove.WithMetrics(prometheus.DefaultRegisterer)))
	}

	return f.Create(cfg.ContainerName, append(derived, opts...)...)
}

// Container returns the active container.
func (f *Facade) Container() (grove.Container, error) {
	c, err := f.dir.Active()
	if err != nil {
		return nil, ErrContainerNotInitialized
	}
	return c, nil
}

// Register forwards to [grove.Container.Register] under the facade lock.
func (f *Facade) Register(contract reflect.Type, opts ...grove.Option) error {
	c, err := f.Container()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return c.Register(contract, opts...)
}

// DeRegister forwards to [grove.Container.DeRegister] under the facade lock.
func (f *Facade) DeRegister(t reflect.Type) error {
	c, err := f.Container()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c.DeRegister(t)
	return nil
}

// DeRegisterInstance forwards to [grove.Container.DeRegisterInstance] under
// the facade lock.
func (f *Facade) DeRegisterInstance(instance any) error {
	c, err := f.Container()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c.DeRegisterInstance(instance)
	return nil
}

// Clear forwards to [grove.Container.Clear] under the facade lock.
func (f *Facade) Clear() error {
	c, err := f.Container()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c.Clear()
	f.logger().Debug("grove: container cleared", zap.String("container", f.dir.ActiveName()))
	return nil
}

// Resolve forwards to [grove.Container.Resolve].
func (f *Facade) Resolve(t reflect.Type, name string) (any, error) {
	c, err := f.Container()
	if err != nil {
		return nil, err
	}
	return c.Resolve(t, name)
}

func (f *Facade) logger() *zap.Logger {
	f.logMu.RLock()
	defer f.logMu.RUnlock()
	return f.log
}
