// Package main provides the videoembed CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"videoembed/internal/core"
	httpserver "videoembed/internal/http"
	"videoembed/internal/i18n"
	"videoembed/internal/store"
)

const envPrefix = "VIDEOEMBED"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "videoembed",
	Short: "videoembed - video links to embeddable player URLs",
	Long: `videoembed converts YouTube, Vimeo, TikTok and Facebook video links into
embeddable player URLs. It runs as an HTTP service by default and offers
resolve, validate and scan commands for scripting.`,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
	SilenceUsage:      true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "env file (default is .env)")
	flags.String("log-level", core.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("server-host", core.DefaultServerHost, "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	flags.Duration("server-read-timeout", core.DefaultServerTimeout, "HTTP read timeout")
	flags.Duration("server-write-timeout", core.DefaultServerTimeout, "HTTP write timeout")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Message language (%s)", supportedLangs))
	flags.Int("flood-limit-per-minute", core.DefaultFloodLimitPerMinute,
		"Maximum API requests per client, route and minute (0 disables)")
	flags.Int("cache-size", core.DefaultCacheSize, "Number of resolved and rejected links to remember")
	flags.Float64("bloom-false-positive-rate", core.DefaultBloomFalsePositiveRate,
		"False positive rate of the rejected link filter")
	flags.String("embed-config", "", "YAML, JSON or TOML file with per-provider embed defaults")
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(serveCmd, newResolveCmd(), newValidateCmd(), newScanCmd())
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	config = cfg
	logger = buildLogger(config.Log.Level)
	return nil
}

func buildConfig() (*core.Config, error) {
	cfg := core.DefaultConfig()

	configureServer(cfg)
	configureApp(cfg)

	embedDefaults, err := core.LoadEmbedDefaults(cfg.App.EmbedConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Embed = embedDefaults

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = core.DefaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.ReadTimeout = viper.GetDuration("server-read-timeout")
	cfg.Server.WriteTimeout = viper.GetDuration("server-write-timeout")
	cfg.Log.Level = strings.ToLower(viper.GetString("log-level"))
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}
	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
	cfg.App.CacheSize = viper.GetInt("cache-size")
	cfg.App.BloomFalsePositiveRate = viper.GetFloat64("bloom-false-positive-rate")
	cfg.App.EmbedConfigPath = viper.GetString("embed-config")
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

// newService builds the resolution service from the loaded configuration.
func newService(recorder core.Recorder) *core.Service {
	cache := store.NewResultCache(config.App.CacheSize, config.App.BloomFalsePositiveRate)
	return core.NewService(config.Embed, cache, recorder, logger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting videoembed",
		zap.String("language", config.App.Language),
		zap.Int("flood_limit_per_minute", config.App.FloodLimitPerMinute),
		zap.Int("cache_size", config.App.CacheSize),
		zap.String("embed_config", config.App.EmbedConfigPath))

	metrics := httpserver.NewMetrics()
	service := newService(metrics)
	httpServer := httpserver.NewServer(config, service, metrics, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	logger.Info("videoembed started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("videoembed stopped with error", zap.Error(err))
		return err
	}

	logger.Info("videoembed stopped gracefully")
	return nil
}
