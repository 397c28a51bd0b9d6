package grove

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Container methods
// ---------------------------------------------------------------------------

func (c *container) Resolve(t reflect.Type, name string) (any, error) {
	if t == nil {
		c.metrics.resolved(lifetimeNone, resultNotFound)
		return nil, fmt.Errorf("%w: requested type is nil", ErrNotFound)
	}

	b, err := c.find(t, name)
	if err != nil {
		return nil, err
	}

	lifetime := b.lifetime.String()

	v, constructed, err := b.instance()
	if err != nil {
		c.metrics.resolved(lifetime, resultError)
		return nil, err
	}
	if constructed {
		c.metrics.constructions.WithLabelValues(lifetime).Inc()
		if b.lifetime == Singleton {
			c.log.Debug("grove: singleton constructed",
				zap.String("name", b.name),
				zap.Stringer("contract", b.contract),
				zap.Stringer("concrete", b.concrete),
			)
		}
	}

	if vt := reflect.TypeOf(v); vt == nil || !vt.AssignableTo(t) {
		c.metrics.resolved(lifetime, resultInvalidCast)
		return nil, fmt.Errorf("%w: binding %q produced %v, not assignable to %s", ErrInvalidCast, b.name, vt, t)
	}

	c.metrics.resolved(lifetime, resultOK)
	return v, nil
}

// find selects the binding for t and name against the current snapshot.
func (c *container) find(t reflect.Type, name string) (*binding, error) {
	current := c.load()

	if name != "" {
		for _, b := range current {
			if b.name == name && b.contract == t {
				return b, nil
			}
		}
		c.metrics.resolved(lifetimeNone, resultNotFound)
		return nil, fmt.Errorf("%w: %s named %q", ErrNotFound, t, name)
	}

	var (
		match *binding
		count int
	)
	for _, b := range current {
		if b.contract == t {
			if match == nil {
				match = b
			}
			count++
		}
	}

	switch {
	case count == 0:
		c.metrics.resolved(lifetimeNone, resultNotFound)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t)
	case count > 1:
		c.metrics.resolved(lifetimeNone, resultAmbiguous)
		return nil, fmt.Errorf("%w: %s is registered %d times, resolve it by name", ErrAmbiguousBinding, t, count)
	}

	return match, nil
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Resolve is a generic helper that resolves the single binding for T. It is
// the recommended way to retrieve values:
//
//	db, err := grove.Resolve[*Database](c)
func Resolve[T any](c Container) (T, error) {
	return ResolveNamed[T](c, "")
}

// ResolveNamed is a generic helper that resolves the binding for T with the
// given name. An empty name behaves like [Resolve]:
//
//	db, err := grove.ResolveNamed[*Database](c, "primary")
func ResolveNamed[T any](c Container, name string) (T, error) {
	var zero T
	t := typeOf[T]()

	val, err := c.Resolve(t, name)
	if err != nil {
		return zero, err
	}

	out, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: cannot convert %T to %s", ErrInvalidCast, val, t)
	}

	return out, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
