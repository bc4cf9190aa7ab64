package validation

import (
	"testing"

	"github.com/mmrzaf/sdstats/internal/infra/repos/blueprints"
	"github.com/mmrzaf/sdstats/internal/registry"
)

func TestRepositoryBlueprintsValidate(t *testing.T) {
	repo := blueprints.NewFileRepository("../../blueprints")
	list, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("expected blueprint files")
	}

	v := NewValidator(registry.DefaultProviderRegistry())
	for _, bp := range list {
		if err := v.ValidateBlueprint(bp); err != nil {
			t.Fatalf("blueprint %q failed validation: %v", bp.ID, err)
		}
	}
}
