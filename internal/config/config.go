package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables consulted for the Anthropic credential when
// anthropic.key is not set. The first one present wins.
const (
	EnvAPIKey          = "PITCH_PANDA_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Config holds the full application configuration.
type Config struct {
	Input     InputConfig     `yaml:"input" mapstructure:"input"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Deck      DeckConfig      `yaml:"deck" mapstructure:"deck"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the startup list and the pitch deck folder.
type InputConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	DecksDir string `yaml:"decks_dir" mapstructure:"decks_dir"`
}

// OutputConfig locates the per-company output tree.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// AnthropicConfig holds Anthropic API settings. Each stage has its own model.
type AnthropicConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	WebModel        string `yaml:"web_model" mapstructure:"web_model"`
	DeckModel       string `yaml:"deck_model" mapstructure:"deck_model"`
	MergeModel      string `yaml:"merge_model" mapstructure:"merge_model"`
	EvaluationModel string `yaml:"evaluation_model" mapstructure:"evaluation_model"`
	MaxTokens       int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// FetchConfig configures homepage fetching.
type FetchConfig struct {
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxChars      int    `yaml:"max_chars" mapstructure:"max_chars"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// Timeout returns the HTTP timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// CacheTTL returns the snapshot cache lifetime. Zero disables caching.
func (f FetchConfig) CacheTTL() time.Duration {
	if f.CacheTTLHours <= 0 {
		return 0
	}
	return time.Duration(f.CacheTTLHours) * time.Hour
}

// DeckConfig configures PDF rasterization.
type DeckConfig struct {
	PdftoppmPath string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	DPI          int    `yaml:"dpi" mapstructure:"dpi"`
	MaxSlides    int    `yaml:"max_slides" mapstructure:"max_slides"`
	KeepImages   bool   `yaml:"keep_images" mapstructure:"keep_images"`
}

// PipelineConfig configures orchestration.
type PipelineConfig struct {
	Concurrency int  `yaml:"concurrency" mapstructure:"concurrency"`
	MarketSize  bool `yaml:"market_size" mapstructure:"market_size"`
	Competitors bool `yaml:"competitors" mapstructure:"competitors"`
}

// StoreConfig configures the run ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Anthropic map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PITCHPANDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.path", "startups.csv")
	v.SetDefault("input.decks_dir", "pitchdecks")
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.web_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.deck_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.merge_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.evaluation_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.max_chars", 10000)
	v.SetDefault("fetch.max_body_bytes", 1<<20)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; PitchPanda/1.0)")
	v.SetDefault("fetch.cache_ttl_hours", 24)
	v.SetDefault("deck.pdftoppm_path", "pdftoppm")
	v.SetDefault("deck.dpi", 150)
	v.SetDefault("deck.max_slides", 0)
	v.SetDefault("deck.keep_images", false)
	v.SetDefault("pipeline.concurrency", 1)
	v.SetDefault("pipeline.market_size", true)
	v.SetDefault("pipeline.competitors", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "pitchpanda.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Anthropic.Key == "" {
		cfg.Anthropic.Key = ResolveAPIKey(os.Getenv)
	}

	return &cfg, nil
}

// ResolveAPIKey returns the first non-empty credential from the
// environment, checking EnvAPIKey before EnvAnthropicAPIKey.
func ResolveAPIKey(getenv func(string) string) string {
	for _, name := range []string{EnvAPIKey, EnvAnthropicAPIKey} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Validation modes.
const (
	ModePipeline = "pipeline"
	ModeOffline  = "offline"
	ModeInspect  = "inspect"
)

// Validate reports every setting the given mode cannot run without.
// ModePipeline needs a credential; ModeOffline and ModeInspect do not.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case ModePipeline:
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required (set "+EnvAPIKey+" or "+EnvAnthropicAPIKey+")")
		}
	case ModeOffline, ModeInspect:
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode != ModeInspect {
		if c.Output.Dir == "" {
			errs = append(errs, "output.dir is required")
		}
		if c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 50 {
			errs = append(errs, "pipeline.concurrency must be between 1 and 50")
		}
		if c.Anthropic.MaxTokens < 1 {
			errs = append(errs, "anthropic.max_tokens must be > 0")
		}
		if c.Deck.DPI < 1 {
			errs = append(errs, "deck.dpi must be > 0")
		}
		if c.Fetch.MaxChars < 1 {
			errs = append(errs, "fetch.max_chars must be > 0")
		}
	}

	switch c.Store.Driver {
	case "none":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		errs = append(errs, "store.driver must be one of sqlite, postgres, none")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
