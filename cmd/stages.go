package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/evaluate"
	"github.com/pitchpanda/pitchpanda/internal/extract"
	"github.com/pitchpanda/pitchpanda/internal/input"
	"github.com/pitchpanda/pitchpanda/internal/merge"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/pipeline"
	"github.com/pitchpanda/pitchpanda/internal/render"
	"github.com/pitchpanda/pitchpanda/internal/store"
)

var (
	stageName string
	stageURL  string
	stagePDF  string
	stageDir  string
)

// -- web --

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the web stage for one company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if stageName == "" || stageURL == "" {
			return eris.New("web: --name and --url are required")
		}
		if err := cfg.Validate(validationMode()); err != nil {
			return err
		}
		startup := model.StartupRecord{Name: stageName, URL: stageURL}
		p, cleanup, err := stagePipeline(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		snap := p.Fetcher().Fetch(ctx, startup.URL)
		wa, usage, err := extract.Web(ctx, p.ExtractDeps(""), startup, snap)
		if err != nil {
			return err
		}
		return writeStageReport(p.CompanyDir(startup), pipeline.WebReport, render.Web(startup, wa), usage)
	},
}

// -- deck --

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Run the deck stage for one PDF",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if stagePDF == "" {
			return eris.New("deck: --pdf is required")
		}
		if err := cfg.Validate(validationMode()); err != nil {
			return err
		}
		name := stageName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(stagePDF), filepath.Ext(stagePDF))
		}
		p, cleanup, err := stagePipeline(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		dir := p.CompanyDir(model.StartupRecord{Name: name})
		d, usage, err := extract.Deck(ctx, p.ExtractDeps(filepath.Join(dir, "slides")), stagePDF)
		if err != nil {
			return err
		}
		return writeStageReport(dir, pipeline.DeckReport, render.Deck(d), usage)
	},
}

// -- merge --

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the web and deck reports in a company directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if stageDir == "" {
			return eris.New("merge: --dir is required")
		}
		if err := cfg.Validate(validationMode()); err != nil {
			return err
		}
		webText, err := readOptional(filepath.Join(stageDir, pipeline.WebReport))
		if err != nil {
			return err
		}
		deckText, err := readOptional(filepath.Join(stageDir, pipeline.DeckReport))
		if err != nil {
			return err
		}
		name := stageName
		if name == "" {
			name = companyName(webText, companyName(deckText, filepath.Base(stageDir)))
		}

		p, cleanup, err := stagePipeline(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		m, usage, err := merge.Merge(ctx, p.LLMDeps(cfg.Anthropic.MergeModel), name, webText, deckText)
		if err != nil {
			return err
		}
		return writeStageReport(stageDir, pipeline.MergedReport, render.Merged(m), usage)
	},
}

// -- evaluate --

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the merged report in a company directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if stageDir == "" {
			return eris.New("evaluate: --dir is required")
		}
		if err := cfg.Validate(validationMode()); err != nil {
			return err
		}
		mergedText, err := os.ReadFile(filepath.Join(stageDir, pipeline.MergedReport))
		if err != nil {
			return eris.Wrap(err, "evaluate: read merged report")
		}
		name := stageName
		if name == "" {
			name = companyName(string(mergedText), filepath.Base(stageDir))
		}

		p, cleanup, err := stagePipeline(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		ev, usage, err := evaluate.Evaluate(ctx, p.LLMDeps(cfg.Anthropic.EvaluationModel), name, string(mergedText))
		if err != nil {
			return err
		}
		return writeStageReport(stageDir, pipeline.EvaluationReport, render.Evaluation(ev), usage)
	},
}

// -- links --

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the hyperlinks found in a PDF",
	RunE: func(_ *cobra.Command, _ []string) error {
		if stagePDF == "" {
			return eris.New("links: --pdf is required")
		}
		links, err := input.ExtractLinks(stagePDF)
		if err != nil {
			return err
		}
		for _, l := range links {
			fmt.Fprintln(os.Stdout, l)
		}
		return nil
	},
}

func init() {
	webCmd.Flags().StringVar(&stageName, "name", "", "company name")
	webCmd.Flags().StringVar(&stageURL, "url", "", "company homepage URL")

	deckCmd.Flags().StringVar(&stagePDF, "pdf", "", "pitch deck PDF")
	deckCmd.Flags().StringVar(&stageName, "name", "", "company name (default: PDF file name)")

	mergeCmd.Flags().StringVar(&stageDir, "dir", "", "company output directory")
	mergeCmd.Flags().StringVar(&stageName, "name", "", "company name (default: read from the reports)")

	evaluateCmd.Flags().StringVar(&stageDir, "dir", "", "company output directory")
	evaluateCmd.Flags().StringVar(&stageName, "name", "", "company name (default: read from the merged report)")

	linksCmd.Flags().StringVar(&stagePDF, "pdf", "", "PDF to read")

	rootCmd.AddCommand(webCmd, deckCmd, mergeCmd, evaluateCmd, linksCmd)
}

// stagePipeline builds a pipeline for a single-stage command. The snapshot
// cache is the only part of the ledger these commands use.
func stagePipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("store unavailable, continuing without cache", zap.Error(err))
		st = store.NopStore{}
	}
	return initPipeline(st), func() { _ = st.Close() }, nil
}

func writeStageReport(dir, name, md string, usage model.TokenUsage) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", dir)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d tokens, $%.4f)\n", path, usage.Total(), usage.Cost)
	return nil
}

// readOptional returns the file contents, or "" when the file does not exist.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// reportPrefixes are stripped from a report title to recover the company name.
var reportPrefixes = []string{"Pitch Deck Analysis: ", "Investment Evaluation: "}

// companyName returns the title of a rendered report, or fallback when the
// report has no top-level heading.
func companyName(md, fallback string) string {
	for _, h := range render.Outline(md) {
		if h.Level != 1 {
			continue
		}
		name := h.Text
		for _, p := range reportPrefixes {
			name = strings.TrimPrefix(name, p)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return fallback
}
