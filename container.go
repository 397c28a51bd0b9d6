package grove

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container defines the interface for a binding registry. Use [New] to
// create the default implementation.
type Container interface {
	// Register adds a binding for the contract type. Supply exactly one of
	// [WithInstance] or [WithFactory]; [WithName] and [WithLifetime] are
	// optional. Prefer the generic helpers [RegisterInstance],
	// [RegisterValue], [RegisterType] and [RegisterSelf].
	//
	// A failed Register leaves the container unchanged.
	Register(contract reflect.Type, opts ...Option) error

	// DeRegister removes the first binding whose contract is t. It is a
	// no-op when there is none.
	DeRegister(t reflect.Type)

	// DeRegisterInstance removes the first binding whose contract is the
	// runtime type of instance. It is a no-op when there is none.
	DeRegisterInstance(instance any)

	// Clear removes every binding.
	Clear()

	// Resolve returns the instance bound to t. With a non-empty name the
	// binding must match both name and contract; without one exactly one
	// binding for t must exist. Prefer the generic [Resolve] and
	// [ResolveNamed] helpers over calling this method directly.
	Resolve(t reflect.Type, name string) (any, error)

	// Bindings returns a snapshot of the registered bindings in
	// registration order.
	Bindings() []BindingInfo

	// Len returns the number of registered bindings.
	Len() int
}

type container struct {
	// mu serializes mutations. Readers load bindings without it; every
	// mutation publishes a fresh slice.
	mu       sync.Mutex
	bindings atomic.Pointer[[]*binding]

	log        *zap.Logger
	metrics    *metrics
	metricsReg prometheus.Registerer
}

// New creates an empty [Container] ready for registration.
func New(opts ...ContainerOption) Container {
	c := &container{
		log:     zap.NewNop(),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.metricsReg != nil {
		for _, col := range c.metrics.collectors() {
			if err := c.metricsReg.Register(col); err != nil {
				c.log.Warn("grove: metrics collector not registered", zap.Error(err))
			}
		}
	}

	return c
}

func (c *container) load() []*binding {
	if p := c.bindings.Load(); p != nil {
		return *p
	}
	return nil
}

// publish must be called with mu held.
func (c *container) publish(next []*binding) {
	c.bindings.Store(&next)
	c.metrics.bindings.Set(float64(len(next)))
}

func (c *container) Register(contract reflect.Type, opts ...Option) error {
	if contract == nil {
		return fmt.Errorf("%w: contract type is nil", ErrInvalidBinding)
	}

	var r registration
	for _, opt := range opts {
		opt(&r)
	}

	b, err := newBinding(contract, r)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.load()
	for _, existing := range current {
		// Two defaulted names may repeat; that is how a contract ends up
		// registered more than once.
		if existing.name == b.name && (b.explicitName || existing.explicitName) {
			return fmt.Errorf("%w: name %q is already registered for %s", ErrConflict, b.name, existing.contract)
		}
	}

	next := make([]*binding, len(current), len(current)+1)
	copy(next, current)
	c.publish(append(next, b))

	c.metrics.registrations.WithLabelValues(b.lifetime.String()).Inc()
	c.log.Debug("grove: registered",
		zap.String("name", b.name),
		zap.Stringer("contract", b.contract),
		zap.Stringer("concrete", b.concrete),
		zap.Stringer("lifetime", b.lifetime),
	)
	return nil
}

func (c *container) DeRegister(t reflect.Type) {
	if t == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.load()
	for i, b := range current {
		if b.contract != t {
			continue
		}

		next := make([]*binding, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		c.publish(next)

		c.log.Debug("grove: deregistered",
			zap.String("name", b.name),
			zap.Stringer("contract", b.contract),
		)
		return
	}
}

func (c *container) DeRegisterInstance(instance any) {
	if instance == nil {
		return
	}
	c.DeRegister(reflect.TypeOf(instance))
}

func (c *container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.load())
	c.publish(nil)
	c.log.Debug("grove: cleared", zap.Int("removed", n))
}

func (c *container) Bindings() []BindingInfo {
	current := c.load()
	out := make([]BindingInfo, len(current))
	for i, b := range current {
		out[i] = b.info()
	}
	return out
}

func (c *container) Len() int {
	return len(c.load())
}
