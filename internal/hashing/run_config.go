package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/sdstats/internal/domain"
)

type runConfigHashPayload struct {
	BlueprintHash string `json:"blueprint_hash"`
	TargetKind    string `json:"target_kind"`
	TargetSchema  string `json:"target_schema,omitempty"`
	TargetDSN     string `json:"target_dsn"`
	Table         string `json:"table"`
	Mode          string `json:"mode"`
	Iterations    int    `json:"iterations"`
	Seed          int64  `json:"seed"`
}

// HashRunConfig fingerprints everything that determines a run's output.
func HashRunConfig(bp *domain.Blueprint, target *domain.TargetConfig, table, mode string, iterations int, seed int64) (string, error) {
	bh, err := HashBlueprint(bp)
	if err != nil {
		return "", err
	}

	p := runConfigHashPayload{
		BlueprintHash: bh,
		TargetKind:    target.Kind,
		TargetSchema:  target.Schema,
		TargetDSN:     target.DSN,
		Table:         table,
		Mode:          mode,
		Iterations:    iterations,
		Seed:          seed,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
