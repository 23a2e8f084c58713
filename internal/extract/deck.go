package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/salvage"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// Fallback lines for a deck reply that could not be parsed.
const (
	DeckFailedObservation = "Analysis validation failed - please check logs"
	DeckFailedMissing     = "Analysis could not be completed"
)

// Deck rasterizes the PDF at pdfPath, sends every slide to the vision model
// and decodes the reply. Rasterization and LLM failures are returned as
// errors; an unparseable reply yields a fallback record.
func Deck(ctx context.Context, deps Deps, pdfPath string) (*model.DeckAnalysis, model.TokenUsage, error) {
	var usage model.TokenUsage
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	log := zap.L().With(zap.String("deck", filepath.Base(pdfPath)), zap.String("stage", model.StageDeck))

	if deps.Rasterizer == nil {
		return nil, usage, eris.New("extract: no rasterizer configured")
	}

	slideDir, cleanup, err := slideWorkDir(deps)
	if err != nil {
		return nil, usage, err
	}
	defer cleanup()

	slides, err := deps.Rasterizer.Rasterize(ctx, pdfPath, slideDir)
	if err != nil {
		return nil, usage, eris.Wrap(err, "extract: rasterize deck")
	}

	images := make([]anthropic.Image, 0, len(slides))
	for _, s := range slides {
		data, err := fetcher.EncodeBase64(s)
		if err != nil {
			return nil, usage, eris.Wrap(err, "extract: encode slide")
		}
		images = append(images, anthropic.Image{MediaType: "image/png", Data: data})
	}
	log.Info("extract: deck rasterized", zap.Int("slides", len(slides)))

	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageDeck,
		Model:       deps.AI.DeckModel,
		MaxTokens:   deps.AI.MaxTokens,
		Temperature: llm.Temperature(extractionTemperature),
		Prompt:      fmt.Sprintf(deckPrompt, len(slides)),
		Images:      images,
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "extract: deck analysis")
	}
	usage.Add(comp.Usage)

	da := &model.DeckAnalysis{}
	out := salvage.Decode(comp.Text, da)
	if !out.Decoded() {
		log.Warn("extract: deck reply unparseable", zap.String("reason", out.Reason))
		da = parseFailedDeck(comp.Text, out.Reason)
	}
	for _, d := range out.Diagnostics {
		da.AddDataQualityNote(d)
	}
	if comp.Truncated() {
		da.AddDataQualityNote("reply hit the token limit and may be incomplete")
	}

	if strings.TrimSpace(da.DeckName) == "" {
		da.DeckName = stem
	}
	da.TotalSlides = len(slides)
	da.Normalize()
	return da, usage, nil
}

// slideWorkDir returns the directory slides are rendered into and a cleanup
// func that removes it when the images are not kept.
func slideWorkDir(deps Deps) (string, func(), error) {
	if deps.Deck.KeepImages && deps.SlidesDir != "" {
		if err := os.MkdirAll(deps.SlidesDir, 0o755); err != nil {
			return "", nil, eris.Wrapf(err, "extract: create slides dir %s", deps.SlidesDir)
		}
		return deps.SlidesDir, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "pitchpanda-slides-*")
	if err != nil {
		return "", nil, eris.Wrap(err, "extract: create temp slides dir")
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func parseFailedDeck(raw, reason string) *model.DeckAnalysis {
	da := &model.DeckAnalysis{
		ProblemStatement: salvage.Excerpt(raw, rawExcerptChars),
		Observations:     []string{DeckFailedObservation},
		MissingElements:  []string{DeckFailedMissing},
		ParseFailed:      true,
	}
	da.AddDataQualityNote("Deck analysis reply could not be parsed (" + reason + ")")
	return da
}
