package grove

import "errors"

var (
	// ErrConfiguration is returned when a container is created with an
	// empty name or configuration is otherwise unusable.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAlreadyInitialized is returned when a second container is created
	// in the same directory.
	ErrAlreadyInitialized = errors.New("container already initialized")

	// ErrNotInitialized is returned when a container is looked up before it
	// has been created.
	ErrNotInitialized = errors.New("container not initialized")

	// ErrConflict is returned when a binding is registered with a name that
	// is already taken.
	ErrConflict = errors.New("binding name conflict")

	// ErrInvalidBinding is returned when the concrete type of a binding
	// cannot be constructed or does not satisfy the contract.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrAmbiguousBinding is returned when an unnamed resolve matches more
	// than one binding. Resolve by name instead.
	ErrAmbiguousBinding = errors.New("ambiguous binding")

	// ErrNotFound is returned when no binding matches the requested type
	// or name.
	ErrNotFound = errors.New("binding not found")

	// ErrInvalidCast is returned when a resolved instance or the container
	// itself cannot be converted to the requested type.
	ErrInvalidCast = errors.New("invalid cast")
)
