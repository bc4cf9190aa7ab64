package app

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/exec"
	"github.com/mmrzaf/sdstats/internal/hashing"
	"github.com/mmrzaf/sdstats/internal/infra/repos/blueprints"
	"github.com/mmrzaf/sdstats/internal/infra/repos/runs"
	"github.com/mmrzaf/sdstats/internal/infra/repos/targets"
	"github.com/mmrzaf/sdstats/internal/logging"
	"github.com/mmrzaf/sdstats/internal/registry"
	"github.com/mmrzaf/sdstats/internal/schema"
	"github.com/mmrzaf/sdstats/internal/validation"
)

// DefaultIterations applies when neither the request nor the blueprint
// sets a record count.
const DefaultIterations = 100

type RunService struct {
	blueprintRepo blueprints.Repository
	targetRepo    targets.Repository
	runRepo       runs.Repository
	providers     *registry.ProviderRegistry
	validator     *validation.Validator
	executor      *exec.Executor
	logger        *logging.Logger
}

func NewRunService(
	blueprintRepo blueprints.Repository,
	targetRepo targets.Repository,
	runRepo runs.Repository,
	providers *registry.ProviderRegistry,
	logger *logging.Logger,
	batchSize int,
) *RunService {
	return &RunService{
		blueprintRepo: blueprintRepo,
		targetRepo:    targetRepo,
		runRepo:       runRepo,
		providers:     providers,
		validator:     validation.NewValidator(providers),
		executor:      exec.NewExecutor(batchSize),
		logger:        logger.WithComponent("run_service"),
	}
}

// RunPlan is a fully resolved run request. Planning writes nothing.
type RunPlan struct {
	Blueprint  *domain.Blueprint
	Target     *domain.TargetConfig
	Table      string
	Mode       string
	Seed       int64
	Iterations int
	ConfigHash string
	Methods    []string
}

func (s *RunService) PlanRun(req *domain.RunRequest) (*RunPlan, error) {
	if err := s.validator.ValidateRunRequest(req); err != nil {
		return nil, fmt.Errorf("invalid run request: %w", err)
	}

	bp, err := s.resolveBlueprint(req)
	if err != nil {
		return nil, err
	}
	stored, err := s.resolveTarget(req)
	if err != nil {
		return nil, err
	}
	targetCfg, err := effectiveTarget(stored, req.Database)
	if err != nil {
		return nil, err
	}

	seed := ResolveSeed(req.Seed, bp.Seed)
	iterations := DefaultIterations
	if req.Iterations != nil {
		iterations = *req.Iterations
	} else if bp.Iterations > 0 {
		iterations = bp.Iterations
	}

	table := req.Table
	if table == "" {
		table = targetCfg.Table
	}
	if table == "" {
		table = tableName(bp.ID)
	}
	if table == "" {
		table = tableName(bp.Name)
	}
	if !validation.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table identifier: %s", table)
	}

	compiled, err := s.Compile(bp, seed)
	if err != nil {
		return nil, fmt.Errorf("blueprint compilation failed: %w", err)
	}

	s.logger.Debug("planned %s into %s.%s with %d methods", bp.ID, targetCfg.Name, table, len(compiled.Methods()))

	configHash, err := hashing.HashRunConfig(bp, targetCfg, table, req.Mode, iterations, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	return &RunPlan{
		Blueprint:  bp,
		Target:     targetCfg,
		Table:      table,
		Mode:       req.Mode,
		Seed:       seed,
		Iterations: iterations,
		ConfigHash: configHash,
		Methods:    compiled.Methods(),
	}, nil
}

// StartRun plans, records and executes a run synchronously. A run that
// fails during execution is still returned, marked failed, with the error.
func (s *RunService) StartRun(req *domain.RunRequest) (*domain.Run, error) {
	plan, err := s.PlanRun(req)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{
		BlueprintID:      plan.Blueprint.ID,
		BlueprintName:    plan.Blueprint.Name,
		BlueprintVersion: plan.Blueprint.Version,
		TargetID:         plan.Target.ID,
		TargetName:       plan.Target.Name,
		TargetKind:       plan.Target.Kind,
		Table:            plan.Table,
		Seed:             plan.Seed,
		Iterations:       plan.Iterations,
		Mode:             plan.Mode,
		ConfigHash:       plan.ConfigHash,
		Status:           domain.RunStatusRunning,
		StartedAt:        time.Now().UTC(),
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.logger.Infow("run.started", map[string]any{
		"run_id":     run.ID,
		"blueprint":  run.BlueprintName,
		"target":     run.TargetName,
		"table":      run.Table,
		"seed":       run.Seed,
		"iterations": run.Iterations,
	})

	if err := s.executeRun(run, plan); err != nil {
		s.logger.Errorw("run.failed", map[string]any{"run_id": run.ID, "error": err.Error()})
		s.updateRunFailed(run, err.Error())
		return run, err
	}
	return run, nil
}

func (s *RunService) executeRun(run *domain.Run, plan *RunPlan) error {
	target, err := BuildTarget(plan.Target)
	if err != nil {
		return err
	}

	compiled, err := s.Compile(plan.Blueprint, plan.Seed)
	if err != nil {
		return err
	}
	records, err := compiled.StatsSchema().Iterate(plan.Iterations, plan.Blueprint.ExcludeFromUnnesting)
	if err != nil {
		return err
	}

	stats, err := s.executor.Execute(records, target, plan.Table, plan.Mode)
	if err != nil {
		return err
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	run.Stats = statsJSON
	run.Status = domain.RunStatusSuccess
	run.CompletedAt = &now

	if err := s.runRepo.Update(run); err != nil {
		s.logger.Error("Failed to update run %s: %v", run.ID, err)
	}

	s.logger.Infow("run.completed", map[string]any{
		"run_id":   run.ID,
		"records":  stats.RecordsGenerated,
		"batches":  stats.Batches,
		"duration": stats.DurationSeconds,
	})
	return nil
}

func (s *RunService) updateRunFailed(run *domain.Run, errorMsg string) {
	now := time.Now().UTC()
	run.Status = domain.RunStatusFailed
	run.Error = errorMsg
	run.CompletedAt = &now
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Error("Failed to update run %s: %v", run.ID, err)
	}
}

// Compile binds bp to a fresh field seeded with seed.
func (s *RunService) Compile(bp *domain.Blueprint, seed int64) (*schema.Compiled, error) {
	field := schema.NewField(s.providers, seed, schema.WithFakerSource())
	return schema.Compile(field, bp)
}

// Preview generates records in memory without touching a target.
func (s *RunService) Preview(bp *domain.Blueprint, iterations int, seed *int64) ([]*domain.Record, int64, error) {
	if err := s.validator.ValidateBlueprint(bp); err != nil {
		return nil, 0, err
	}
	effective := ResolveSeed(seed, bp.Seed)
	compiled, err := s.Compile(bp, effective)
	if err != nil {
		return nil, 0, err
	}
	records, err := compiled.StatsSchema().Create(iterations, bp.ExcludeFromUnnesting)
	if err != nil {
		return nil, 0, err
	}
	return records, effective, nil
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	return s.runRepo.List(limit, status)
}

func (s *RunService) resolveBlueprint(req *domain.RunRequest) (*domain.Blueprint, error) {
	if req.Blueprint != nil {
		return req.Blueprint, nil
	}
	bp, err := s.blueprintRepo.Get(req.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}
	if err := s.validator.ValidateBlueprint(bp); err != nil {
		return nil, fmt.Errorf("blueprint validation failed: %w", err)
	}
	return bp, nil
}

func (s *RunService) resolveTarget(req *domain.RunRequest) (*domain.TargetConfig, error) {
	if req.Target != nil {
		return req.Target, nil
	}
	targetCfg, err := s.targetRepo.Get(req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target: %w", err)
	}
	if err := s.validator.ValidateTarget(targetCfg); err != nil {
		return nil, fmt.Errorf("target validation failed: %w", err)
	}
	return targetCfg, nil
}

// ResolveSeed applies request seed, then blueprint seed, then a random one.
func ResolveSeed(requested, blueprint *int64) int64 {
	switch {
	case requested != nil:
		return *requested
	case blueprint != nil:
		return *blueprint
	default:
		return generateSeed()
	}
}

func generateSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// tableName derives a default table from a blueprint id.
func tableName(id string) string {
	name := nonIdent.ReplaceAllString(id, "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}
