package main

import (
	"context"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/internal/pipeline"
	"github.com/pitchpanda/pitchpanda/internal/store"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// validationMode is the config mode required by the current flags.
func validationMode() string {
	if offline {
		return config.ModeOffline
	}
	return config.ModePipeline
}

// initStore opens the configured run ledger and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

// initPipeline wires the pipeline from cfg. The store doubles as the
// homepage snapshot cache.
func initPipeline(st store.Store) *pipeline.Pipeline {
	var client anthropic.Client
	if offline {
		client = &pipeline.StubAnthropicClient{}
	} else {
		client = anthropic.NewClient(cfg.Anthropic.Key)
	}

	web := fetcher.NewWebFetcher(fetcher.WebOptions{
		Timeout:      cfg.Fetch.Timeout(),
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		MaxChars:     cfg.Fetch.MaxChars,
		Cache:        st,
		CacheTTL:     cfg.Fetch.CacheTTL(),
	})
	rasterizer := fetcher.NewPdftoppm(cfg.Deck.PdftoppmPath, cfg.Deck.DPI, cfg.Deck.MaxSlides)

	return pipeline.New(cfg, st, web, client, rasterizer)
}
