package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"videoembed/internal/i18n"
	"videoembed/pkg/embed"
)

// Configuration defaults
const (
	DefaultServerHost             = "0.0.0.0"
	DefaultServerPort             = 8080
	DefaultServerTimeout          = 10 * time.Second
	DefaultLogLevel               = "info"
	DefaultFloodLimitPerMinute    = 120
	DefaultCacheSize              = 4096
	DefaultBloomFalsePositiveRate = 0.001
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server ServerConfig
	Log    LogConfig
	App    AppConfig
	Embed  EmbedConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language               string
	FloodLimitPerMinute    int // 0 disables request limiting
	CacheSize              int
	BloomFalsePositiveRate float64
	EmbedConfigPath        string
}

// EmbedConfig holds the static per-provider options merged under every resolution.
type EmbedConfig struct {
	YouTube  embed.YouTubeOptions  `mapstructure:"youtube"`
	Vimeo    embed.VimeoOptions    `mapstructure:"vimeo"`
	TikTok   embed.TikTokOptions   `mapstructure:"tiktok"`
	Facebook embed.FacebookOptions `mapstructure:"facebook"`
}

// DefaultEmbedConfig returns each provider's default options.
func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		YouTube:  embed.DefaultYouTubeOptions(),
		Vimeo:    embed.DefaultVimeoOptions(),
		TikTok:   embed.DefaultTikTokOptions(),
		Facebook: embed.DefaultFacebookOptions(),
	}
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         DefaultServerHost,
			Port:         DefaultServerPort,
			ReadTimeout:  DefaultServerTimeout,
			WriteTimeout: DefaultServerTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "json",
		},
		App: AppConfig{
			Language:               i18n.DefaultLanguage,
			FloodLimitPerMinute:    DefaultFloodLimitPerMinute,
			CacheSize:              DefaultCacheSize,
			BloomFalsePositiveRate: DefaultBloomFalsePositiveRate,
		},
		Embed: DefaultEmbedConfig(),
	}
}

// Validate checks the settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if !i18n.IsSupported(c.App.Language) {
		return fmt.Errorf("%w: unsupported language %q (supported: %v)",
			ErrInvalidConfig, c.App.Language, i18n.GetSupportedLanguages())
	}
	if c.App.FloodLimitPerMinute < 0 {
		return fmt.Errorf("%w: flood limit must not be negative", ErrInvalidConfig)
	}
	if c.App.CacheSize <= 0 {
		return fmt.Errorf("%w: cache size must be positive", ErrInvalidConfig)
	}
	if c.App.BloomFalsePositiveRate <= 0 || c.App.BloomFalsePositiveRate >= 1 {
		return fmt.Errorf("%w: bloom false positive rate must be between 0 and 1", ErrInvalidConfig)
	}
	return nil
}

// LoadEmbedDefaults reads per-provider options from a YAML, JSON or TOML file over
// the built-in defaults. An empty path returns the defaults. Unknown keys are an error.
func LoadEmbedDefaults(path string) (EmbedConfig, error) {
	cfg := DefaultEmbedConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return EmbedConfig{}, fmt.Errorf("failed to read embed config %s: %w", path, err)
	}

	if err := v.UnmarshalExact(&cfg); err != nil {
		return EmbedConfig{}, fmt.Errorf("failed to decode embed config %s: %w", path, err)
	}

	return cfg, nil
}
