package registry

import (
	"errors"
	"testing"

	"github.com/mmrzaf/sdstats/internal/generators"
)

func TestResolve_ExactAndBareNames(t *testing.T) {
	r := DefaultProviderRegistry()

	key, _, err := r.Resolve("multi_variable.dependent_variables")
	if err != nil {
		t.Fatal(err)
	}
	if key != "multi_variable.dependent_variables" {
		t.Fatalf("unexpected key: %s", key)
	}

	key, _, err = r.Resolve("dependent_variables")
	if err != nil {
		t.Fatal(err)
	}
	if key != "multi_variable.dependent_variables" {
		t.Fatalf("bare name resolved to %s", key)
	}
}

func TestResolve_UnknownAndAmbiguous(t *testing.T) {
	r := NewProviderRegistry()
	r.Register("person", "email", &generators.ConstGenerator{})
	r.Register("faker", "email", &generators.ConstGenerator{})

	if _, _, err := r.Resolve("email"); !errors.Is(err, ErrAmbiguousMethod) {
		t.Fatalf("expected ambiguous error, got %v", err)
	}
	if _, _, err := r.Resolve("person.phone"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected unknown error, got %v", err)
	}
	if _, _, err := r.Resolve("phone"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected unknown error, got %v", err)
	}
	if _, err := r.Get("email"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("Get must not resolve bare names, got %v", err)
	}
}

func TestList_Sorted(t *testing.T) {
	names := DefaultProviderRegistry().List()
	if len(names) == 0 {
		t.Fatal("expected registered providers")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("list not sorted at %d: %s > %s", i, names[i-1], names[i])
		}
	}
}
