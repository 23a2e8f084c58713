package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// NopStore satisfies Store without persisting anything. Runs and phases get
// fresh IDs so callers can log them; reads find nothing.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) CreateRun(_ context.Context, startup model.StartupRecord) (*model.Run, error) {
	now := time.Now().UTC()
	return &model.Run{
		ID:        uuid.New().String(),
		Startup:   startup,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (NopStore) UpdateRunStatus(context.Context, string, model.RunStatus) error { return nil }

func (NopStore) UpdateRunResult(context.Context, string, *model.RunResult) error { return nil }

func (NopStore) GetRun(_ context.Context, runID string) (*model.Run, error) {
	return nil, eris.Errorf("run not found: %s", runID)
}

func (NopStore) ListRuns(context.Context, RunFilter) ([]model.Run, error) { return nil, nil }

func (NopStore) CreatePhase(_ context.Context, runID string, name string) (*model.RunPhase, error) {
	return &model.RunPhase{
		ID:        uuid.New().String(),
		RunID:     runID,
		Name:      name,
		Status:    model.PhaseStatusRunning,
		StartedAt: time.Now().UTC(),
	}, nil
}

func (NopStore) CompletePhase(context.Context, string, *model.PhaseResult) error { return nil }

func (NopStore) ListPhases(context.Context, string) ([]model.RunPhase, error) { return nil, nil }

func (NopStore) GetCachedSnapshot(context.Context, string) (*model.Snapshot, error) { return nil, nil }

func (NopStore) SetCachedSnapshot(context.Context, model.Snapshot, time.Duration) error { return nil }

func (NopStore) Migrate(context.Context) error { return nil }

func (NopStore) Close() error { return nil }
