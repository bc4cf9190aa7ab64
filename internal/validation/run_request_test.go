package validation

import (
	"errors"
	"testing"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/registry"
)

func validBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		Name: "inline",
		Variables: []domain.GenerationVariable{
			{Name: "age", ProviderMethod: "random.randint", Kwargs: map[string]interface{}{"min": 18, "max": 90}},
		},
	}
}

func TestValidateRunRequest_RequiresMode(t *testing.T) {
	v := NewValidator(registry.DefaultProviderRegistry())
	req := &domain.RunRequest{
		BlueprintID: "b1",
		TargetID:    "t1",
	}
	if err := v.ValidateRunRequest(req); err == nil {
		t.Fatal("expected mode validation error")
	}
}

func TestValidateRunRequest_Overrides(t *testing.T) {
	v := NewValidator(registry.DefaultProviderRegistry())
	seed := int64(7)
	n := 25
	req := &domain.RunRequest{
		Blueprint:  validBlueprint(),
		TargetID:   "t1",
		Mode:       "truncate",
		Seed:       &seed,
		Iterations: &n,
		Table:      "people",
	}
	if err := v.ValidateRunRequest(req); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateRunRequest_RejectsInvalidOverrides(t *testing.T) {
	v := NewValidator(registry.DefaultProviderRegistry())
	zero := 0
	req := &domain.RunRequest{
		BlueprintID: "b1",
		TargetID:    "t1",
		Mode:        "create",
		Iterations:  &zero,
	}
	if err := v.ValidateRunRequest(req); err == nil {
		t.Fatal("expected iterations error")
	}

	req2 := &domain.RunRequest{
		BlueprintID: "b1",
		TargetID:    "t1",
		Mode:        "create",
		Table:       "bad-name",
	}
	if err := v.ValidateRunRequest(req2); err == nil {
		t.Fatal("expected invalid table error")
	}

	req3 := &domain.RunRequest{
		BlueprintID: "b1",
		Blueprint:   validBlueprint(),
		TargetID:    "t1",
		Mode:        "create",
	}
	if err := v.ValidateRunRequest(req3); err == nil {
		t.Fatal("expected blueprint exclusivity error")
	}
}

func TestValidateTarget_Kinds(t *testing.T) {
	v := NewValidator(registry.DefaultProviderRegistry())
	ok := []*domain.TargetConfig{
		{Name: "e1", Kind: "elasticsearch", DSN: "http://localhost:9200"},
		{Name: "p1", Kind: "pgcopy", DSN: "postgres://localhost/x", Schema: "staging"},
		{Name: "r1", Kind: "redis", DSN: "localhost:6379"},
		{Name: "f1", Kind: "parquet", DSN: "./out"},
	}
	for _, tc := range ok {
		if err := v.ValidateTarget(tc); err != nil {
			t.Fatalf("expected %s target valid, got %v", tc.Kind, err)
		}
	}

	sqliteBad := &domain.TargetConfig{Name: "s1", Kind: "sqlite", DSN: "/tmp/x.db", Database: "not_allowed"}
	if err := v.ValidateTarget(sqliteBad); err == nil {
		t.Fatal("expected sqlite database field to be rejected")
	}
	unknown := &domain.TargetConfig{Name: "m1", Kind: "mysql", DSN: "x"}
	if err := v.ValidateTarget(unknown); err == nil {
		t.Fatal("expected unsupported kind to be rejected")
	}
}

func TestValidateBlueprint(t *testing.T) {
	v := NewValidator(registry.DefaultProviderRegistry())
	if err := v.ValidateBlueprint(validBlueprint()); err != nil {
		t.Fatalf("expected valid blueprint, got %v", err)
	}

	unknown := validBlueprint()
	unknown.Variables[0].ProviderMethod = "random.nope"
	if err := v.ValidateBlueprint(unknown); !errors.Is(err, registry.ErrUnknownMethod) {
		t.Fatalf("expected unknown method error, got %v", err)
	}

	dup := validBlueprint()
	dup.Variables = append(dup.Variables, dup.Variables[0])
	if err := v.ValidateBlueprint(dup); err == nil {
		t.Fatal("expected duplicate variable error")
	}

	badExclude := validBlueprint()
	badExclude.ExcludeFromUnnesting = []string{"missing"}
	if err := v.ValidateBlueprint(badExclude); err == nil {
		t.Fatal("expected exclude_from_unnesting error")
	}

	badWeights := validBlueprint()
	badWeights.Variables[0] = domain.GenerationVariable{
		Name:           "colour",
		ProviderMethod: "discrete_distribution",
		Kwargs: map[string]interface{}{
			"population": []interface{}{"red", "blue"},
			"weights":    []interface{}{0.5, 0.6},
		},
	}
	if err := v.ValidateBlueprint(badWeights); err == nil {
		t.Fatal("expected weights error")
	}
}
