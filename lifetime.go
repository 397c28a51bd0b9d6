package grove

// Lifetime controls how many instances a type-only binding produces.
type Lifetime int

const (
	// Singleton is the default lifetime. The factory is called on the first
	// [Container.Resolve] for the binding and the result is reused for every
	// later call.
	Singleton Lifetime = iota

	// Transient means a new instance is constructed on every
	// [Container.Resolve] call.
	Transient
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

func (l Lifetime) valid() bool {
	return l == Singleton || l == Transient
}
