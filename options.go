package grove

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// registration collects the options passed to [Container.Register] before
// they are validated into a binding.
type registration struct {
	name        string
	lifetime    Lifetime
	lifetimeSet bool
	instance    any
	hasInstance bool
	factory     any
}

// Option configures a binding during registration.
type Option func(*registration)

// WithName sets the binding name. Names must be unique within a container.
// Without it the name defaults to the contract's type name.
func WithName(name string) Option {
	return func(r *registration) {
		r.name = name
	}
}

// WithLifetime sets the [Lifetime] of a factory binding. The default is
// [Singleton]. Instance bindings only accept [Singleton].
func WithLifetime(l Lifetime) Option {
	return func(r *registration) {
		r.lifetime = l
		r.lifetimeSet = true
	}
}

// WithInstance binds a ready-made instance. The instance's runtime type is
// the concrete type and must be assignable to the contract.
func WithInstance(instance any) Option {
	return func(r *registration) {
		r.instance = instance
		r.hasInstance = true
	}
}

// WithFactory binds a factory used to construct instances on resolve. The
// factory must take no arguments and return (C) or (C, error), where C is a
// non-interface type assignable to the contract.
func WithFactory(factory any) Option {
	return func(r *registration) {
		r.factory = factory
	}
}

// ContainerOption configures a container created by [New].
type ContainerOption func(*container)

// WithLogger sets the logger used for registry events. The default is a
// no-op logger.
func WithLogger(l *zap.Logger) ContainerOption {
	return func(c *container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics registers the container's collectors with reg. Registration
// failures, such as a second container using the same registerer, are
// logged and the collectors stay unregistered.
func WithMetrics(reg prometheus.Registerer) ContainerOption {
	return func(c *container) {
		c.metricsReg = reg
	}
}
