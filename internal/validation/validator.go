package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/registry"
	"github.com/mmrzaf/sdstats/internal/schema"
)

type Validator struct {
	providers *registry.ProviderRegistry
}

func NewValidator(providers *registry.ProviderRegistry) *Validator {
	return &Validator{providers: providers}
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/column names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

// ValidateBlueprint checks the blueprint's shape and compiles it, so every
// provider method and its static arguments are checked without generating.
func (v *Validator) ValidateBlueprint(bp *domain.Blueprint) error {
	if bp.Name == "" {
		return errors.New("blueprint name is required")
	}
	if len(bp.Variables) == 0 {
		return errors.New("blueprint must have at least one variable")
	}
	if bp.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %d", bp.Iterations)
	}

	names := make(map[string]bool, len(bp.Variables))
	for _, gv := range bp.Variables {
		if err := validateVariable(gv, names); err != nil {
			return fmt.Errorf("variable '%s': %w", gv.Name, err)
		}
	}
	for _, ex := range bp.ExcludeFromUnnesting {
		if !names[ex] {
			return fmt.Errorf("exclude_from_unnesting names unknown variable: %s", ex)
		}
	}

	if _, err := schema.Compile(schema.NewField(v.providers, 0), bp); err != nil {
		return err
	}
	return nil
}

func validateVariable(gv domain.GenerationVariable, names map[string]bool) error {
	if gv.Name == "" {
		return errors.New("variable name is required")
	}
	if !IsValidIdentifier(gv.Name) {
		return fmt.Errorf("invalid variable identifier: %s", gv.Name)
	}
	if names[gv.Name] {
		return fmt.Errorf("duplicate variable name: %s", gv.Name)
	}
	names[gv.Name] = true

	if gv.ProviderMethod == "" {
		return errors.New("provider_method is required")
	}
	return nil
}

func (v *Validator) ValidateTarget(t *domain.TargetConfig) error {
	if t.Name == "" {
		return errors.New("target name is required")
	}
	if t.Kind == "" {
		return errors.New("target kind is required")
	}
	if t.DSN == "" {
		return errors.New("target dsn is required")
	}
	if t.Table != "" && !IsValidIdentifier(t.Table) {
		return fmt.Errorf("invalid target table identifier: %s", t.Table)
	}

	switch t.Kind {
	case domain.TargetKindPostgres, domain.TargetKindPGCopy:
		if t.Schema != "" && !IsValidIdentifier(t.Schema) {
			return fmt.Errorf("invalid target schema identifier: %s", t.Schema)
		}
		if t.Database != "" {
			return fmt.Errorf("%s targets must not set database; put it in the dsn", t.Kind)
		}
	case domain.TargetKindSQLite, domain.TargetKindElasticsearch, domain.TargetKindRedis,
		domain.TargetKindCSV, domain.TargetKindJSONL, domain.TargetKindParquet:
		if t.Schema != "" {
			return fmt.Errorf("%s targets must not set schema", t.Kind)
		}
		if t.Database != "" {
			return fmt.Errorf("%s targets must not set database", t.Kind)
		}
	default:
		return fmt.Errorf("unsupported target kind: %s", t.Kind)
	}

	return nil
}

func (v *Validator) ValidateRunRequest(req *domain.RunRequest) error {
	hasBlueprintID := req.BlueprintID != ""
	hasBlueprint := req.Blueprint != nil

	if !hasBlueprintID && !hasBlueprint {
		return errors.New("either blueprint_id or blueprint must be provided")
	}

	if hasBlueprintID && hasBlueprint {
		return errors.New("only one of blueprint_id or blueprint must be provided")
	}

	hasTargetID := req.TargetID != ""
	hasTarget := req.Target != nil

	if !hasTargetID && !hasTarget {
		return errors.New("either target_id or target must be provided")
	}

	if hasTargetID && hasTarget {
		return errors.New("only one of target_id or target must be provided")
	}

	if req.Mode == "" {
		return errors.New("mode is required")
	}
	if !IsValidMode(req.Mode) {
		return fmt.Errorf("invalid mode: %s", req.Mode)
	}

	if req.Iterations != nil && *req.Iterations < 1 {
		return fmt.Errorf("iterations must be > 0, got %d", *req.Iterations)
	}
	if req.Table != "" && !IsValidIdentifier(req.Table) {
		return fmt.Errorf("invalid table identifier: %s", req.Table)
	}

	if req.Blueprint != nil {
		if err := v.ValidateBlueprint(req.Blueprint); err != nil {
			return fmt.Errorf("blueprint validation failed: %w", err)
		}
	}

	if req.Target != nil {
		if err := v.ValidateTarget(req.Target); err != nil {
			return fmt.Errorf("target validation failed: %w", err)
		}
	}

	return nil
}

func IsValidMode(mode string) bool {
	switch mode {
	case domain.TableModeCreate, domain.TableModeTruncate, domain.TableModeAppend:
		return true
	default:
		return false
	}
}
