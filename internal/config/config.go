package config

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	OCR    OCRConfig    `yaml:"ocr" mapstructure:"ocr"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Notify NotifyConfig `yaml:"notify" mapstructure:"notify"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver" validate:"oneof=sqlite postgres"`
	Path        string `yaml:"path" mapstructure:"path" validate:"required_if=Driver sqlite"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url" validate:"required_if=Driver postgres"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns" validate:"gte=0"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns" validate:"gte=0"`
}

// FetchConfig configures bulletin downloads.
type FetchConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries" validate:"min=1"`
	Concurrency   int     `yaml:"concurrency" mapstructure:"concurrency" validate:"min=1,max=32"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec" validate:"gte=0"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	DiscoverLinks bool    `yaml:"discover_links" mapstructure:"discover_links"`
}

// Timeout returns the per-request timeout.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CacheConfig configures the document cache.
type CacheConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required"`
}

// OCRConfig selects the PDF text extractor.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider" validate:"oneof=pdf pdftotext mistral"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralAPIKey string `yaml:"mistral_api_key" mapstructure:"mistral_api_key" validate:"required_if=Provider mistral"`
	MistralModel  string `yaml:"mistral_model" mapstructure:"mistral_model"`
}

// MatchConfig configures the label matcher.
type MatchConfig struct {
	// AliasesPath is an optional YAML file of extra labels per entry.
	AliasesPath string `yaml:"aliases_path" mapstructure:"aliases_path"`
}

// NotifyConfig configures run notifications.
type NotifyConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind" validate:"oneof=none webhook file"`
	WebhookURL  string `yaml:"webhook_url" mapstructure:"webhook_url" validate:"required_if=Kind webhook,omitempty,url"`
	Dir         string `yaml:"dir" mapstructure:"dir" validate:"required_if=Kind file"`
	OnlyOnError bool   `yaml:"only_on_error" mapstructure:"only_on_error"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FUELPRICES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "data/fuelprices.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("fetch.base_url", "http://www.fuelprices.gr")
	v.SetDefault("fetch.timeout_secs", 5)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("fetch.rate_per_sec", 5)
	v.SetDefault("fetch.user_agent", "fuelprices-cli/1.0")
	v.SetDefault("fetch.discover_links", false)
	v.SetDefault("cache.dir", "data/cache")
	v.SetDefault("ocr.provider", "pdf")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_api_key", "")
	v.SetDefault("ocr.mistral_model", "mistral-ocr-latest")
	v.SetDefault("match.aliases_path", "")
	v.SetDefault("notify.kind", "none")
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.dir", "data/notifications")
	v.SetDefault("notify.only_on_error", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Namespace()+": failed "+fe.Tag())
			}
			return eris.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return eris.Wrap(err, "config: validate")
	}
	if c.Store.MinConns > c.Store.MaxConns && c.Store.MaxConns > 0 {
		return eris.New("config: invalid: store.min_conns exceeds store.max_conns")
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

// TeeLogger additionally writes global log entries at or above level to w,
// as plain console lines. The returned func restores the previous logger.
func TeeLogger(w io.Writer, level string) (func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), lvl)

	prev := zap.L()
	restore := zap.ReplaceGlobals(zap.New(zapcore.NewTee(prev.Core(), core)))
	return restore, nil
}
