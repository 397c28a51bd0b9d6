// Package grove provides a small, thread-safe dependency registry with a
// process-wide "active container" that any call site can resolve against.
//
// A [Container] holds an ordered list of bindings. Each binding maps a
// contract type (and a name) to either a ready-made instance or a factory
// together with a [Lifetime]. Resolution is synchronous and in-memory.
//
// # Quick Start
//
//	c := grove.New()
//	grove.RegisterInstance[Animal](c, &Dog{})
//	grove.RegisterSelf(c, grove.Transient, NewCat)
//
//	a, err := grove.Resolve[Animal](c)
//
// # Lifetimes
//
// With [Singleton] the factory runs at most once, on first resolution, and the
// instance is cached. Instance registrations are always singletons.
//
// With [Transient] the factory runs on every resolution; nothing is cached.
//
// # Names
//
// Every binding carries a name. When none is given it defaults to the
// contract's type name with pointers stripped, so a binding for Animal is
// named "Animal" and one for *Dog is named "Dog". Explicit names are unique
// across the whole container:
//
//	grove.RegisterInstance[Animal](c, &Dog{}, grove.WithName("dog"))
//	grove.RegisterInstance[Animal](c, &Cat{}, grove.WithName("cat"))
//
//	cat, _ := grove.ResolveNamed[Animal](c, "cat")
//
// # The active container
//
// A [Directory] allows exactly one container to be created. The process
// default, returned by [DefaultDirectory], backs the facade in package
// global and the ambient lookup in package inject.
package grove
