package grove

import "reflect"

// RegisterInstance binds instance under the contract type T:
//
//	grove.RegisterInstance[Animal](c, &Dog{})
func RegisterInstance[T any](c Container, instance T, opts ...Option) error {
	return c.Register(typeOf[T](), withFirst(WithInstance(instance), opts)...)
}

// RegisterValue binds instance under its own runtime type.
func RegisterValue(c Container, instance any, opts ...Option) error {
	return c.Register(reflect.TypeOf(instance), withFirst(WithInstance(instance), opts)...)
}

// RegisterType binds the contract T to a factory producing the concrete type
// C. The factory runs according to lifetime:
//
//	grove.RegisterType[Animal](c, grove.Transient, NewDog)
func RegisterType[T, C any](c Container, lifetime Lifetime, factory func() C, opts ...Option) error {
	return c.Register(typeOf[T](), withFirst(WithFactory(factory), append([]Option{WithLifetime(lifetime)}, opts...))...)
}

// RegisterSelf binds T to a factory producing T.
func RegisterSelf[T any](c Container, lifetime Lifetime, factory func() T, opts ...Option) error {
	return RegisterType[T, T](c, lifetime, factory, opts...)
}

// DeRegister removes the first binding whose contract is T.
func DeRegister[T any](c Container) {
	c.DeRegister(typeOf[T]())
}

func withFirst(first Option, rest []Option) []Option {
	out := make([]Option, 0, len(rest)+1)
	out = append(out, first)
	return append(out, rest...)
}
