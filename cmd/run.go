package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/input"
	"github.com/pitchpanda/pitchpanda/internal/model"
)

var (
	runInput       string
	runLinks       string
	runDecks       string
	runOutput      string
	runLimit       int
	runConcurrency int
	runDryRun      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze every startup in the input list",
	Long:  "Runs the web, deck, merge and evaluation stages for each startup and writes a run summary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyRunFlags()

		mode := validationMode()
		if runDryRun {
			mode = config.ModeInspect
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		records, err := loadRecords(ctx)
		if err != nil {
			return err
		}
		if runLimit > 0 && len(records) > runLimit {
			records = records[:runLimit]
		}

		if runDryRun {
			return printRecords(os.Stdout, records)
		}
		if len(records) == 0 {
			return eris.New("run: no startups to analyze")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch := initPipeline(st).RunBatch(ctx, records)

		fmt.Fprintf(os.Stdout, "Analyzed %d companies: %d succeeded, %d failed.\n",
			len(batch.Companies), batch.Succeeded, batch.Failed)
		if batch.SummaryPath != "" {
			fmt.Fprintf(os.Stdout, "Summary: %s\n", batch.SummaryPath)
		}
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "run: interrupted")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "CSV file of startup name,url rows (default from config)")
	runCmd.Flags().StringVar(&runLinks, "links", "", "PDF whose hyperlinks list the startups, instead of --input")
	runCmd.Flags().StringVar(&runDecks, "decks", "", "directory of pitch deck PDFs (default from config)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output directory (default from config)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "analyze at most N startups (0 = all)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "companies analyzed in parallel (default from config)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the parsed startup records as JSON and exit")
	rootCmd.AddCommand(runCmd)
}

// applyRunFlags overlays explicitly set flags on the loaded config.
func applyRunFlags() {
	if runInput != "" {
		cfg.Input.Path = runInput
	}
	if runDecks != "" {
		cfg.Input.DecksDir = runDecks
	}
	if runOutput != "" {
		cfg.Output.Dir = runOutput
	}
	if runConcurrency > 0 {
		cfg.Pipeline.Concurrency = runConcurrency
	}
}

// loadRecords reads startups from the links PDF when given, otherwise from
// the CSV input.
func loadRecords(ctx context.Context) ([]model.StartupRecord, error) {
	if runLinks != "" {
		links, err := input.ExtractLinks(runLinks)
		if err != nil {
			return nil, eris.Wrap(err, "run: read links")
		}
		records := input.RecordsFromLinks(links)
		zap.L().Info("run: loaded startups from links", zap.String("pdf", runLinks), zap.Int("records", len(records)))
		return records, nil
	}

	res, err := input.LoadStartups(ctx, cfg.Input.Path)
	if err != nil {
		return nil, eris.Wrap(err, "run: load startups")
	}
	for _, s := range res.Skipped {
		zap.L().Warn("run: skipped input row", zap.Int("row", s.Row), zap.String("reason", s.Reason))
	}
	zap.L().Info("run: loaded startups",
		zap.String("path", cfg.Input.Path),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res.Records, nil
}

func printRecords(w io.Writer, records []model.StartupRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
