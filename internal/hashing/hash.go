package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mmrzaf/sdstats/internal/domain"
)

// HashBlueprint fingerprints a blueprint's definition. Kwarg maps are
// canonicalized so key order in the source file does not matter.
func HashBlueprint(bp *domain.Blueprint) (string, error) {
	canonical := canonicalizeBlueprint(bp)
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeBlueprint(bp *domain.Blueprint) map[string]interface{} {
	variables := make([]map[string]interface{}, len(bp.Variables))
	for i, v := range bp.Variables {
		varMap := map[string]interface{}{
			"name":            v.Name,
			"provider_method": v.ProviderMethod,
		}
		if len(v.Kwargs) > 0 {
			varMap["kwargs"] = canonicalizeValue(v.Kwargs)
		}
		variables[i] = varMap
	}

	result := map[string]interface{}{
		"name":      bp.Name,
		"variables": variables,
	}
	if bp.ID != "" {
		result["id"] = bp.ID
	}
	if bp.Version != "" {
		result["version"] = bp.Version
	}
	if bp.Seed != nil {
		result["seed"] = *bp.Seed
	}
	if bp.Iterations > 0 {
		result["iterations"] = bp.Iterations
	}
	if len(bp.ExcludeFromUnnesting) > 0 {
		result["exclude_from_unnesting"] = bp.ExcludeFromUnnesting
	}

	return result
}

// canonicalizeValue normalizes decoded YAML so the JSON encoding is stable.
// yaml.v3 may yield map[interface{}]interface{} for non-string keys.
func canonicalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = canonicalizeValue(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmtKey(k)] = canonicalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = canonicalizeValue(item)
		}
		return out
	default:
		return val
	}
}

func fmtKey(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
