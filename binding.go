package grove

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// binding is a single registration. Everything except the cached instance
// is fixed at construction.
type binding struct {
	name         string
	explicitName bool
	contract     reflect.Type
	concrete     reflect.Type
	lifetime     Lifetime
	factory      reflect.Value

	// mu serializes lazy construction of a singleton. Reads of an already
	// cached instance go through cached only.
	mu     sync.Mutex
	cached atomic.Pointer[any]
}

// BindingInfo is a read-only snapshot of a binding, returned by
// [Container.Bindings].
type BindingInfo struct {
	Name     string
	Contract reflect.Type
	Concrete reflect.Type
	Lifetime Lifetime
	// Cached reports whether the binding currently holds an instance.
	Cached bool
}

func newBinding(contract reflect.Type, r registration) (*binding, error) {
	b := &binding{
		name:         r.name,
		explicitName: r.name != "",
		contract:     contract,
		lifetime:     Singleton,
	}
	if !b.explicitName {
		b.name = typeName(contract)
	}

	if r.lifetimeSet {
		if !r.lifetime.valid() {
			return nil, fmt.Errorf("%w: unknown lifetime %d", ErrInvalidBinding, r.lifetime)
		}
		b.lifetime = r.lifetime
	}

	switch {
	case r.hasInstance && r.factory != nil:
		return nil, fmt.Errorf("%w: %s: instance and factory are mutually exclusive", ErrInvalidBinding, contract)

	case r.hasInstance:
		if isNil(r.instance) {
			return nil, fmt.Errorf("%w: %s: instance is nil", ErrInvalidBinding, contract)
		}
		if b.lifetime != Singleton {
			return nil, fmt.Errorf("%w: %s: instance bindings are always singletons", ErrInvalidBinding, contract)
		}
		b.concrete = reflect.TypeOf(r.instance)
		inst := r.instance
		b.cached.Store(&inst)

	case r.factory != nil:
		fn, err := validateFactory(r.factory)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBinding, contract, err)
		}
		b.factory = fn
		b.concrete = fn.Type().Out(0)

	default:
		return nil, fmt.Errorf("%w: %s: an instance or a factory is required", ErrInvalidBinding, contract)
	}

	if b.concrete.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: %s is an interface and cannot be constructed", ErrInvalidBinding, b.concrete)
	}
	if !b.concrete.AssignableTo(contract) {
		return nil, fmt.Errorf("%w: %s is not assignable to %s", ErrInvalidBinding, b.concrete, contract)
	}

	return b, nil
}

// validateFactory checks that factory has the shape func() T or
// func() (T, error).
func validateFactory(factory any) (reflect.Value, error) {
	val := reflect.ValueOf(factory)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return reflect.Value{}, errors.New("factory must be a function")
	}
	if val.IsNil() {
		return reflect.Value{}, errors.New("factory is nil")
	}
	if typ.NumIn() != 0 {
		return reflect.Value{}, errors.New("factory must take no arguments")
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return reflect.Value{}, errors.New("factory must return (T) or (T, error)")
	}
	if typ.NumOut() == 2 && typ.Out(1) != errorType {
		return reflect.Value{}, errors.New("second return value must be error")
	}

	return val, nil
}

// instance returns the binding's instance, constructing one if the lifetime
// requires it. constructed reports whether the factory ran.
func (b *binding) instance() (v any, constructed bool, err error) {
	if b.lifetime == Transient {
		v, err = b.construct()
		return v, err == nil, err
	}

	if p := b.cached.Load(); p != nil {
		return *p, false, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p := b.cached.Load(); p != nil {
		return *p, false, nil
	}

	v, err = b.construct()
	if err != nil {
		return nil, false, err
	}
	b.cached.Store(&v)
	return v, true, nil
}

func (b *binding) construct() (any, error) {
	if !b.factory.IsValid() {
		return nil, fmt.Errorf("%w: %s has no factory", ErrInvalidBinding, b.name)
	}

	results := b.factory.Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, fmt.Errorf("constructing %s: %w", b.concrete, results[1].Interface().(error))
	}

	return results[0].Interface(), nil
}

func (b *binding) info() BindingInfo {
	return BindingInfo{
		Name:     b.name,
		Contract: b.contract,
		Concrete: b.concrete,
		Lifetime: b.lifetime,
		Cached:   b.cached.Load() != nil,
	}
}

// typeName is the default binding name: the type name with any pointer
// indirection removed.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
