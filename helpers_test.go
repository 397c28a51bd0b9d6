package grove

import (
	"reflect"
	"sync/atomic"
	"testing"
)

// Shared test types and factories used across test files.

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c Container, contract reflect.Type, opts ...Option) {
	t.Helper()
	if err := c.Register(contract, opts...); err != nil {
		t.Fatalf("Register(%s): %v", contract, err)
	}
}

// mustResolve calls t.Fatal if resolution fails.
func mustResolve[T any](t *testing.T, c Container, name string) T {
	t.Helper()
	v, err := ResolveNamed[T](c, name)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}
	return v
}

type testAnimal interface {
	Sound() string
}

type testDog struct{ Name string }

func (d *testDog) Sound() string { return "woof" }

type testCat struct{ Name string }

func (c *testCat) Sound() string { return "meow" }

type testConfig struct{ DSN string }

func newTestDog() *testDog       { return &testDog{} }
func newTestCat() *testCat       { return &testCat{} }
func newTestConfig() *testConfig { return &testConfig{DSN: "postgres://localhost"} }

// valueError implements error on a struct value.
type valueError struct{}

func (valueError) Error() string { return "value error" }

// countingFactory returns a factory for *testDog that counts its calls.
func countingFactory(n *atomic.Int64) func() *testDog {
	return func() *testDog {
		n.Add(1)
		return &testDog{}
	}
}

var (
	animalType = typeOf[testAnimal]()
	dogType    = typeOf[*testDog]()
	catType    = typeOf[*testCat]()
)
