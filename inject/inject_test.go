package inject_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ARTM2000/grove"
	"github.com/ARTM2000/grove/global"
	"github.com/ARTM2000/grove/inject"
)

type animal interface{ Sound() string }

type dog struct{}

func (dog) Sound() string { return "woof" }

type cat struct{}

func (cat) Sound() string { return "meow" }

// soundBox mirrors what grovegen emits for a struct with two named fields.
type soundBox struct {
	first  animal
	second animal
}

func (s *soundBox) Inject() error {
	var err error
	if s.first, err = inject.Resolve[animal]("dog"); err != nil {
		return err
	}
	if s.second, err = inject.Resolve[animal]("cat"); err != nil {
		return err
	}
	return nil
}

// TestResolve runs in sequence because the default directory can only be
// created once per process.
func TestResolve(t *testing.T) {
	t.Run("without a container returns ErrNotInitialized", func(t *testing.T) {
		if _, err := inject.Resolve[animal](""); !errors.Is(err, grove.ErrNotInitialized) {
			t.Fatalf("expected ErrNotInitialized, got: %v", err)
		}
		if _, err := inject.ResolveType(reflect.TypeOf(dog{}), ""); !errors.Is(err, grove.ErrNotInitialized) {
			t.Fatalf("expected ErrNotInitialized, got: %v", err)
		}
	})

	if _, err := global.Create("inject-test"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("missing binding returns ErrNotFound", func(t *testing.T) {
		if _, err := inject.Resolve[animal]("nope"); !errors.Is(err, grove.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got: %v", err)
		}
	})

	if err := global.Register[animal](dog{}, grove.WithName("dog")); err != nil {
		t.Fatal(err)
	}
	if err := global.Register[animal](cat{}, grove.WithName("cat")); err != nil {
		t.Fatal(err)
	}

	t.Run("resolves named bindings", func(t *testing.T) {
		var box soundBox
		if err := box.Inject(); err != nil {
			t.Fatalf("Inject: %v", err)
		}
		if box.first.Sound() != "woof" || box.second.Sound() != "meow" {
			t.Fatalf("unexpected sounds %q, %q", box.first.Sound(), box.second.Sound())
		}
	})

	t.Run("ResolveType", func(t *testing.T) {
		v, err := inject.ResolveType(reflect.TypeOf((*animal)(nil)).Elem(), "cat")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := v.(cat); !ok {
			t.Fatalf("expected cat, got %T", v)
		}
	})

	t.Run("unnamed resolve of duplicates is ambiguous", func(t *testing.T) {
		if _, err := inject.Resolve[animal](""); !errors.Is(err, grove.ErrAmbiguousBinding) {
			t.Fatalf("expected ErrAmbiguousBinding, got: %v", err)
		}
	})

	t.Run("MustResolve", func(t *testing.T) {
		if got := inject.MustResolve[animal]("dog").Sound(); got != "woof" {
			t.Fatalf("got %q", got)
		}

		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic")
			}
		}()
		inject.MustResolve[animal]("missing")
	})
}
