// Package inject resolves bindings from the active process container
// without a container reference. It is the call target of code emitted by
// grovegen:
//
//	func (s *AnimalSound) Inject() error {
//		var err error
//		if s.dog, err = inject.Resolve[Animal]("dog"); err != nil {
//			return err
//		}
//		return nil
//	}
package inject

import (
	"fmt"
	"reflect"

	"github.com/ARTM2000/grove"
)

// ResolveType resolves t and name against the active container of
// [grove.DefaultDirectory]. It fails with [grove.ErrNotInitialized] when no
// container exists and with [grove.ErrNotFound] when nothing matches.
func ResolveType(t reflect.Type, name string) (any, error) {
	c, err := grove.DefaultDirectory().Active()
	if err != nil {
		return nil, fmt.Errorf("inject: resolving %s: %w", t, err)
	}
	return c.Resolve(t, name)
}

// Resolve resolves T by name from the active container. An empty name
// resolves the single binding for T.
func Resolve[T any](name string) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	v, err := ResolveType(t, name)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: cannot convert %T to %s", grove.ErrInvalidCast, v, t)
	}
	return out, nil
}

// MustResolve is like [Resolve] but panics on error. It is meant for
// package-level variable initialisation.
func MustResolve[T any](name string) T {
	v, err := Resolve[T](name)
	if err != nil {
		panic(err)
	}
	return v
}
