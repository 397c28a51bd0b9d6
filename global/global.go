// Package global is the process-wide entry point to grove.
//
// Call [Create] once at startup, register bindings, then resolve from
// anywhere without passing the container around:
//
//	global.Create("app")
//	global.Register[Animal](&Dog{})
//	global.RegisterSelf(grove.Transient, NewCat)
//
//	a, err := global.Resolve[Animal]()
//
// Every function fails with [ErrContainerNotInitialized] until [Create] has
// succeeded. Only one container can ever be created per process.
package global

import (
	"fmt"
	"reflect"

	"github.com/ARTM2000/grove"
	"github.com/ARTM2000/grove/config"
)

var std = NewFacade(grove.DefaultDirectory())

// Default returns the facade over [grove.DefaultDirectory].
func Default() *Facade {
	return std
}

// Create creates the process container under name.
func Create(name string, opts ...CreateOption) (grove.Container, error) {
	return std.Create(name, opts...)
}

// CreateFromConfig creates the process container from cfg. See
// [Facade.CreateFromConfig].
func CreateFromConfig(cfg *config.Config, opts ...CreateOption) (grove.Container, error) {
	return std.CreateFromConfig(cfg, opts...)
}

// Register binds instance under the contract type T.
func Register[T any](instance T, opts ...grove.Option) error {
	return std.Register(typeOf[T](), prepend(grove.WithInstance(instance), opts)...)
}

// RegisterAs binds instance under the explicitly supplied contract type t.
func RegisterAs(t reflect.Type, instance any, opts ...grove.Option) error {
	return std.Register(t, prepend(grove.WithInstance(instance), opts)...)
}

// RegisterValue binds instance under its own runtime type.
func RegisterValue(instance any, opts ...grove.Option) error {
	return std.Register(reflect.TypeOf(instance), prepend(grove.WithInstance(instance), opts)...)
}

// RegisterType binds the contract T to a factory for the concrete type C.
func RegisterType[T, C any](lifetime grove.Lifetime, factory func() C, opts ...grove.Option) error {
	return std.Register(typeOf[T](), prepend(grove.WithFactory(factory), prepend(grove.WithLifetime(lifetime), opts))...)
}

// RegisterSelf binds T to a factory producing T.
func RegisterSelf[T any](lifetime grove.Lifetime, factory func() T, opts ...grove.Option) error {
	return RegisterType[T, T](lifetime, factory, opts...)
}

// DeRegister removes the first binding whose contract is T.
func DeRegister[T any]() error {
	return std.DeRegister(typeOf[T]())
}

// DeRegisterInstance removes the first binding whose contract is the
// runtime type of instance.
func DeRegisterInstance(instance any) error {
	return std.DeRegisterInstance(instance)
}

// Clear removes every binding from the process container.
func Clear() error {
	return std.Clear()
}

// Resolve returns the single binding for T from the process container.
func Resolve[T any]() (T, error) {
	return ResolveNamed[T]("")
}

// ResolveNamed returns the binding for T with the given name.
func ResolveNamed[T any](name string) (T, error) {
	var zero T

	v, err := std.Resolve(typeOf[T](), name)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: cannot convert %T to %s", grove.ErrInvalidCast, v, typeOf[T]())
	}
	return out, nil
}

// InternalContainer returns the process container as T, for callers that
// need capabilities beyond [grove.Container]:
//
//	c, err := global.InternalContainer[grove.Container]()
func InternalContainer[T any]() (T, error) {
	var zero T

	c, err := std.Container()
	if err != nil {
		return zero, err
	}

	out, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: container is %T, not %s", grove.ErrInvalidCast, c, typeOf[T]())
	}
	return out, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func prepend(first grove.Option, rest []grove.Option) []grove.Option {
	out := make([]grove.Option, 0, len(rest)+1)
	out = append(out, first)
	return append(out, rest...)
}
