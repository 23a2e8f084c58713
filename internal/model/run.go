package model

import "time"

// RunStatus represents the current state of a company run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusFetching   RunStatus = "fetching"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusMerging    RunStatus = "merging"
	RunStatusEvaluating RunStatus = "evaluating"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single pipeline run for one startup.
type Run struct {
	ID        string        `json:"id"`
	Startup   StartupRecord `json:"startup"`
	Status    RunStatus     `json:"status"`
	Result    *RunResult    `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Slug         string        `json:"slug"`
	Dir          string        `json:"dir"`
	OverallScore *float64      `json:"overall_score,omitempty"`
	TotalTokens  int           `json:"total_tokens"`
	TotalCost    float64       `json:"total_cost"`
	Phases       []PhaseResult `json:"phases"`
	Error        string        `json:"error,omitempty"`
}

// RunPhase represents a stage within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseStatus represents the current state of a pipeline stage.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline stage.
type PhaseResult struct {
	Name       string         `json:"name"`
	Status     PhaseStatus    `json:"status"`
	Duration   int64          `json:"duration_ms"`
	TokenUsage TokenUsage     `json:"token_usage"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens         int     `json:"input_tokens"`
	OutputTokens        int     `json:"output_tokens"`
	CacheCreationTokens int     `json:"cache_creation_tokens"`
	CacheReadTokens     int     `json:"cache_read_tokens"`
	Cost                float64 `json:"cost"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.CacheCreationTokens += other.CacheCreationTokens
	t.CacheReadTokens += other.CacheReadTokens
	t.Cost += other.Cost
}

// Total returns input plus output tokens.
func (t TokenUsage) Total() int {
	return t.InputTokens + t.OutputTokens
}

// Stage names, in pipeline order.
const (
	StageWeb        = "web"
	StageDeck       = "deck"
	StageMerge      = "merge"
	StageEvaluation = "evaluation"
)

// Stages lists every stage in pipeline order.
var Stages = []string{StageWeb, StageDeck, StageMerge, StageEvaluation}

// CompanyResult is the outcome of running every stage for one startup.
type CompanyResult struct {
	Startup      StartupRecord `json:"startup"`
	Slug         string        `json:"slug"`
	Dir          string        `json:"dir"`
	RunID        string        `json:"run_id,omitempty"`
	Stages       []PhaseResult `json:"stages"`
	OverallScore *float64      `json:"overall_score,omitempty"`
	TotalTokens  int           `json:"total_tokens"`
	TotalCost    float64       `json:"total_cost"`
}

// Stage returns the result for the named stage, if it was recorded.
func (r *CompanyResult) Stage(name string) (PhaseResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return PhaseResult{}, false
}

// StageStatus returns the recorded status for a stage, or skipped when the
// stage never ran.
func (r *CompanyResult) StageStatus(name string) PhaseStatus {
	if s, ok := r.Stage(name); ok {
		return s.Status
	}
	return PhaseStatusSkipped
}

// Succeeded reports whether at least one stage completed.
func (r *CompanyResult) Succeeded() bool {
	for _, s := range r.Stages {
		if s.Status == PhaseStatusComplete {
			return true
		}
	}
	return false
}

// BatchResult aggregates results for a whole input file.
type BatchResult struct {
	Companies   []*CompanyResult `json:"companies"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	TotalTokens int              `json:"total_tokens"`
	TotalCost   float64          `json:"total_cost"`
	SummaryPath string           `json:"summary_path,omitempty"`
}
