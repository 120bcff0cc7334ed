package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reasoning ReasoningConfig `yaml:"reasoning" mapstructure:"reasoning"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ReasoningConfig selects the reasoning provider and the model used by each
// pipeline stage.
type ReasoningConfig struct {
	Provider        string  `yaml:"provider" mapstructure:"provider"`
	ExtractionModel string  `yaml:"extraction_model" mapstructure:"extraction_model"`
	ValidationModel string  `yaml:"validation_model" mapstructure:"validation_model"`
	DecisionModel   string  `yaml:"decision_model" mapstructure:"decision_model"`
	MaxTokens       int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RateLimit       float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests/sec, 0 = unlimited
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider      string        `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string        `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralKey    string        `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string        `yaml:"mistral_model" mapstructure:"mistral_model"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 disables the text cache
}

// PipelineConfig configures per-request document fan-out.
type PipelineConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetEnvPrefix("CLAIMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("pipeline.max_concurrent_documents", 0)
	v.SetDefault("reasoning.provider", "anthropic")
	v.SetDefault("reasoning.extraction_model", "claude-haiku-4-5-20251001")
	v.SetDefault("reasoning.validation_model", "claude-haiku-4-5-20251001")
	v.SetDefault("reasoning.decision_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("reasoning.max_tokens", 4096)
	v.SetDefault("reasoning.rate_limit", 0)
	v.SetDefault("reasoning.burst", 5)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("ocr.provider", "native")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_model", "pixtral-large-latest")
	v.SetDefault("ocr.cache_ttl", "10m")

	// Keys have no default but must be known to viper for env binding.
	for _, key := range []string{"anthropic.key", "openai.key", "ocr.mistral_api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

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

	return &cfg, nil
}

// Validate checks the settings required by the given command mode
// ("serve" or "process"). A missing reasoning credential is not a
// validation error (see Warnings); a missing OCR credential is, because the
// extractor cannot be built without it.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch strings.ToLower(c.Reasoning.Provider) {
	case "anthropic", "openai":
	default:
		errs = append(errs, "reasoning.provider must be anthropic or openai")
	}
	if c.Reasoning.MaxTokens <= 0 {
		errs = append(errs, "reasoning.max_tokens must be > 0")
	}
	if c.Reasoning.RateLimit < 0 {
		errs = append(errs, "reasoning.rate_limit must be >= 0")
	}
	if strings.EqualFold(c.OCR.Provider, "mistral") && c.OCR.MistralKey == "" {
		errs = append(errs, "ocr.mistral_api_key is required when ocr.provider is mistral")
	}
	if c.OCR.CacheTTL < 0 {
		errs = append(errs, "ocr.cache_ttl must be >= 0")
	}
	if c.Pipeline.MaxConcurrentDocuments < 0 {
		errs = append(errs, "pipeline.max_concurrent_documents must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			errs = append(errs, "server.max_upload_mb must be > 0")
		}
	case "process":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// ReasoningKey returns the API key for the configured reasoning provider.
func (c *Config) ReasoningKey() string {
	switch strings.ToLower(c.Reasoning.Provider) {
	case "openai":
		return c.OpenAI.Key
	default:
		return c.Anthropic.Key
	}
}

// Warnings reports configuration problems that do not prevent startup.
// A missing credential only surfaces as failed reasoning calls later.
func (c *Config) Warnings() []string {
	var out []string
	if c.ReasoningKey() == "" {
		out = append(out, "no API key configured for reasoning provider "+c.Reasoning.Provider+
			"; reasoning calls will fail until one is set")
	}
	return out
}

// LogWarnings writes every entry of Warnings at warn level.
func (c *Config) LogWarnings() {
	for _, w := range c.Warnings() {
		zap.L().Warn("config: " + w)
	}
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
