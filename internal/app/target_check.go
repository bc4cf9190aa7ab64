package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/exec"
	"github.com/mmrzaf/sdstats/internal/validation"
)

type serverVersioner interface {
	ServerVersion() (string, error)
}

type tableDropper interface {
	DropTable(table string) error
}

func CheckTarget(t *domain.TargetConfig) (*domain.TargetCheck, error) {
	check := &domain.TargetCheck{
		ID:        uuid.NewString(),
		TargetID:  t.ID,
		CheckedAt: time.Now().UTC(),
	}

	val := validation.NewValidator(nil)
	if err := val.ValidateTarget(t); err != nil {
		check.Error = err.Error()
		return check, err
	}

	resolved, err := effectiveTarget(t, "")
	if err != nil {
		check.Error = err.Error()
		return check, err
	}
	start := time.Now()
	tgt, err := BuildTarget(resolved)
	if err != nil {
		check.Error = err.Error()
		return check, err
	}
	if err := tgt.Connect(); err != nil {
		check.Error = err.Error()
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, err
	}
	defer tgt.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	if v, ok := tgt.(serverVersioner); ok {
		if ver, verErr := v.ServerVersion(); verErr == nil {
			check.ServerVer = ver
		}
	}
	check.Capabilities = probeCapabilities(tgt)
	return check, nil
}

// probeCapabilities exercises create, insert and truncate on a scratch
// table, then drops it when the sink supports that.
func probeCapabilities(tgt exec.Target) domain.TargetCapabilities {
	table := fmt.Sprintf("sdstats_check_%d", time.Now().UnixNano())
	columns := []domain.Column{{Name: "id", Type: domain.ColumnTypeBigInt, Nullable: true}}

	var caps domain.TargetCapabilities
	if d, ok := tgt.(tableDropper); ok {
		defer func() { _ = d.DropTable(table) }()
	}

	if err := tgt.CreateTableIfNotExists(table, columns); err != nil {
		return caps
	}
	caps.CanCreate = true

	if err := tgt.InsertBatch(table, []string{"id"}, [][]interface{}{{int64(1)}}); err != nil {
		return caps
	}
	caps.CanInsert = true

	if err := tgt.TruncateTable(table); err != nil {
		return caps
	}
	caps.CanTruncate = true
	return caps
}

// TestTarget loads a stored target and checks it.
func (s *RunService) TestTarget(targetID string) (*domain.TargetCheck, error) {
	t, err := s.targetRepo.Get(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target: %w", err)
	}
	check, err := CheckTarget(t)
	if err != nil {
		s.logger.Warnw("target.check_failed", map[string]any{"target": t.ID, "error": err.Error()})
	}
	return check, err
}
