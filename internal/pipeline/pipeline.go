// Package pipeline runs every analysis stage for a startup and writes the
// per-company markdown reports.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/cost"
	"github.com/pitchpanda/pitchpanda/internal/evaluate"
	"github.com/pitchpanda/pitchpanda/internal/extract"
	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/internal/merge"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/render"
	"github.com/pitchpanda/pitchpanda/internal/slug"
	"github.com/pitchpanda/pitchpanda/internal/store"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// Report file names inside a company directory.
const (
	WebReport        = "web_analysis.md"
	DeckReport       = "deck_analysis.md"
	MergedReport     = "merged_analysis.md"
	EvaluationReport = "evaluation.md"
	SummaryReport    = "summary.md"
)

// Fetcher turns a homepage URL into a snapshot. Failures come back as
// degraded snapshots, never as errors.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) model.Snapshot
}

// Pipeline orchestrates the web, deck, merge and evaluation stages.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	fetcher    Fetcher
	anthropic  anthropic.Client
	rasterizer fetcher.Rasterizer
	costCalc   *cost.Calculator
}

// New creates a new Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	web Fetcher,
	aiClient anthropic.Client,
	rasterizer fetcher.Rasterizer,
) *Pipeline {
	if st == nil {
		st = store.NopStore{}
	}
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		fetcher:    web,
		anthropic:  aiClient,
		rasterizer: rasterizer,
		costCalc:   cost.NewCalculator(cost.RatesFromConfig(cfg.Pricing)),
	}
}

// CompanyDir returns the output directory for a startup.
func (p *Pipeline) CompanyDir(startup model.StartupRecord) string {
	return filepath.Join(p.cfg.Output.Dir, slug.Make(startup.Name))
}

// Fetcher returns the homepage fetcher.
func (p *Pipeline) Fetcher() Fetcher {
	return p.fetcher
}

// ExtractDeps returns the collaborators of the extraction stages.
func (p *Pipeline) ExtractDeps(slidesDir string) extract.Deps {
	return extract.Deps{
		Client:     p.anthropic,
		Calc:       p.costCalc,
		AI:         p.cfg.Anthropic,
		Pipeline:   p.cfg.Pipeline,
		Deck:       p.cfg.Deck,
		Rasterizer: p.rasterizer,
		SlidesDir:  slidesDir,
	}
}

// LLMDeps returns the single-call dependencies for the given model.
func (p *Pipeline) LLMDeps(modelName string) llm.Deps {
	return llm.Deps{
		Client:    p.anthropic,
		Calc:      p.costCalc,
		Model:     modelName,
		MaxTokens: p.cfg.Anthropic.MaxTokens,
	}
}

// Run executes every stage for a single startup. Stage failures are recorded
// on the result and never abort the remaining independent stages.
func (p *Pipeline) Run(ctx context.Context, startup model.StartupRecord) *model.CompanyResult {
	log := zap.L().With(zap.String("company", startup.Name), zap.String("url", startup.URL))
	log.Info("pipeline: starting analysis")

	companySlug := slug.Make(startup.Name)
	result := &model.CompanyResult{
		Startup: startup,
		Slug:    companySlug,
		Dir:     p.CompanyDir(startup),
	}

	st := p.store
	run, err := st.CreateRun(ctx, startup)
	if err != nil {
		log.Warn("pipeline: failed to create run, continuing without ledger", zap.Error(err))
		st = store.NopStore{}
		run, _ = st.CreateRun(ctx, startup)
	}
	result.RunID = run.ID

	setStatus := func(status model.RunStatus) {
		if statusErr := st.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	// Phase tracking helper with mutex for concurrent access.
	var phasesMu sync.Mutex
	record := func(pr model.PhaseResult) {
		phasesMu.Lock()
		result.Stages = append(result.Stages, pr)
		phasesMu.Unlock()
	}
	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) *model.PhaseResult {
		phase, phaseErr := st.CreatePhase(ctx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{Name: name}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration

		if fnErr != nil {
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Int("tokens", phaseResult.TokenUsage.Total()),
			)
		}

		if phase != nil {
			if err := st.CompletePhase(ctx, phase.ID, phaseResult); err != nil {
				log.Warn("pipeline: failed to complete phase", zap.String("phase", name), zap.Error(err))
			}
		}
		record(*phaseResult)
		return phaseResult
	}
	skipPhase := func(name, reason string) {
		log.Info("pipeline: phase skipped", zap.String("phase", name), zap.String("reason", reason))
		record(model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusSkipped,
			Metadata: map[string]any{"reason": reason},
		})
	}

	if err := os.MkdirAll(result.Dir, 0o755); err != nil {
		log.Error("pipeline: create output dir", zap.Error(err))
		for _, name := range model.Stages {
			record(model.PhaseResult{Name: name, Status: model.PhaseStatusFailed, Error: "pipeline: create output dir: " + err.Error()})
		}
		p.finishRun(ctx, st, run.ID, result, log)
		return result
	}

	// ===== Extraction: web and deck in parallel =====
	setStatus(model.RunStatusExtracting)

	var webText, deckText string
	var g errgroup.Group

	g.Go(func() error {
		if strings.TrimSpace(startup.URL) == "" {
			skipPhase(model.StageWeb, "no website URL")
			return nil
		}
		trackPhase(model.StageWeb, func() (*model.PhaseResult, error) {
			snap := p.fetcher.Fetch(ctx, startup.URL)
			wa, usage, err := extract.Web(ctx, p.ExtractDeps(""), startup, snap)
			pr := &model.PhaseResult{TokenUsage: usage}
			if err != nil {
				return pr, err
			}
			md := render.Web(startup, wa)
			pr.Metadata, err = p.writeReport(result.Dir, WebReport, md)
			if err != nil {
				return pr, err
			}
			pr.Metadata["degraded"] = snap.Degraded()
			pr.Metadata["parse_failed"] = wa.ParseFailed
			webText = md
			return pr, nil
		})
		return nil
	})

	g.Go(func() error {
		pdfPath, err := fetcher.FindDeck(p.cfg.Input.DecksDir, companySlug)
		if errors.Is(err, fetcher.ErrNoDeck) {
			skipPhase(model.StageDeck, "no pitch deck found")
			return nil
		}
		trackPhase(model.StageDeck, func() (*model.PhaseResult, error) {
			if err != nil {
				return nil, err
			}
			d, usage, err := extract.Deck(ctx, p.ExtractDeps(filepath.Join(result.Dir, "slides")), pdfPath)
			pr := &model.PhaseResult{TokenUsage: usage}
			if err != nil {
				return pr, err
			}
			md := render.Deck(d)
			pr.Metadata, err = p.writeReport(result.Dir, DeckReport, md)
			if err != nil {
				return pr, err
			}
			pr.Metadata["pdf"] = pdfPath
			pr.Metadata["slides"] = d.TotalSlides
			pr.Metadata["parse_failed"] = d.ParseFailed
			deckText = md
			return pr, nil
		})
		return nil
	})

	_ = g.Wait()

	// ===== Merge =====
	var mergedText string
	if webText == "" && deckText == "" {
		skipPhase(model.StageMerge, "no completed analyses to merge")
	} else {
		setStatus(model.RunStatusMerging)
		trackPhase(model.StageMerge, func() (*model.PhaseResult, error) {
			m, usage, err := merge.Merge(ctx, p.LLMDeps(p.cfg.Anthropic.MergeModel), startup.Name, webText, deckText)
			pr := &model.PhaseResult{TokenUsage: usage}
			if err != nil {
				return pr, err
			}
			md := render.Merged(m)
			pr.Metadata, err = p.writeReport(result.Dir, MergedReport, md)
			if err != nil {
				return pr, err
			}
			pr.Metadata["parse_failed"] = m.ParseFailed
			mergedText = md
			return pr, nil
		})
	}

	// ===== Evaluation =====
	if mergedText == "" {
		skipPhase(model.StageEvaluation, "merge did not complete")
	} else {
		setStatus(model.RunStatusEvaluating)
		trackPhase(model.StageEvaluation, func() (*model.PhaseResult, error) {
			ev, usage, err := evaluate.Evaluate(ctx, p.LLMDeps(p.cfg.Anthropic.EvaluationModel), startup.Name, mergedText)
			pr := &model.PhaseResult{TokenUsage: usage}
			if err != nil {
				return pr, err
			}
			md := render.Evaluation(ev)
			pr.Metadata, err = p.writeReport(result.Dir, EvaluationReport, md)
			if err != nil {
				return pr, err
			}
			pr.Metadata["parse_failed"] = ev.ParseFailed
			if !ev.ParseFailed {
				score := ev.OverallScore
				result.OverallScore = &score
			}
			return pr, nil
		})
	}

	orderStages(result)
	p.finishRun(ctx, st, run.ID, result, log)
	return result
}

// writeReport writes md to dir/name and returns phase metadata describing it.
func (p *Pipeline) writeReport(dir, name, md string) (map[string]any, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return nil, eris.Wrapf(err, "pipeline: write %s", name)
	}
	headings := render.Outline(md)
	zap.L().Debug("pipeline: report written",
		zap.String("path", path),
		zap.Int("bytes", len(md)),
		zap.Int("headings", len(headings)),
	)
	return map[string]any{"file": path, "headings": len(headings)}, nil
}

// orderStages sorts recorded stages into pipeline order; web and deck finish
// in either order.
func orderStages(result *model.CompanyResult) {
	pos := make(map[string]int, len(model.Stages))
	for i, s := range model.Stages {
		pos[s] = i
	}
	stages := make([]model.PhaseResult, 0, len(result.Stages))
	for _, name := range model.Stages {
		for _, s := range result.Stages {
			if s.Name == name {
				stages = append(stages, s)
			}
		}
	}
	for _, s := range result.Stages {
		if _, known := pos[s.Name]; !known {
			stages = append(stages, s)
		}
	}
	result.Stages = stages
}

func (p *Pipeline) finishRun(ctx context.Context, st store.Store, runID string, result *model.CompanyResult, log *zap.Logger) {
	var totals model.TokenUsage
	var failures []string
	for _, s := range result.Stages {
		totals.Add(s.TokenUsage)
		if s.Status == model.PhaseStatusFailed {
			failures = append(failures, s.Name+": "+s.Error)
		}
	}
	result.TotalTokens = totals.Total()
	result.TotalCost = totals.Cost

	runResult := &model.RunResult{
		Slug:         result.Slug,
		Dir:          result.Dir,
		OverallScore: result.OverallScore,
		TotalTokens:  result.TotalTokens,
		TotalCost:    result.TotalCost,
		Phases:       result.Stages,
	}
	if !result.Succeeded() && len(failures) > 0 {
		runResult.Error = strings.Join(failures, "; ")
	}
	if err := st.UpdateRunResult(ctx, runID, runResult); err != nil {
		log.Warn("pipeline: failed to save run result", zap.Error(err))
	}

	log.Info("pipeline: analysis complete",
		zap.Int("tokens", result.TotalTokens),
		zap.Float64("cost_usd", result.TotalCost),
		zap.Int("failed_stages", len(failures)),
	)
}

// RunBatch runs every startup with bounded concurrency and writes the run
// summary. Results keep input order. A cancelled context stops scheduling
// new companies; companies already running finish their current call.
func (p *Pipeline) RunBatch(ctx context.Context, startups []model.StartupRecord) *model.BatchResult {
	limit := p.cfg.Pipeline.Concurrency
	if limit < 1 {
		limit = 1
	}
	log := zap.L().With(zap.Int("companies", len(startups)), zap.Int("concurrency", limit))
	log.Info("pipeline: starting batch")

	results := make([]*model.CompanyResult, len(startups))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, s := range startups {
		if ctx.Err() != nil {
			log.Warn("pipeline: batch cancelled, not scheduling remaining companies", zap.Int("scheduled", i))
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = p.Run(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	batch := &model.BatchResult{Companies: make([]*model.CompanyResult, 0, len(results))}
	var totals model.TokenUsage
	for _, r := range results {
		if r == nil {
			continue
		}
		batch.Companies = append(batch.Companies, r)
		if r.Succeeded() {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
		for _, s := range r.Stages {
			totals.Add(s.TokenUsage)
		}
	}
	batch.TotalTokens = totals.Total()
	batch.TotalCost = totals.Cost

	if err := os.MkdirAll(p.cfg.Output.Dir, 0o755); err != nil {
		log.Error("pipeline: create output dir", zap.Error(err))
	} else {
		path := filepath.Join(p.cfg.Output.Dir, SummaryReport)
		if err := os.WriteFile(path, []byte(render.Summary(batch.Companies, totals)), 0o644); err != nil {
			log.Error("pipeline: write summary", zap.Error(err))
		} else {
			batch.SummaryPath = path
		}
	}

	log.Info("pipeline: batch complete",
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
		zap.Int("tokens", batch.TotalTokens),
		zap.Float64("cost_usd", batch.TotalCost),
	)
	return batch
}
