package main

import (
	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/internal/cache"
	"github.com/thumbcache/thumbcache/internal/codec"
	"github.com/thumbcache/thumbcache/internal/config"
	"github.com/thumbcache/thumbcache/internal/location"
	"github.com/thumbcache/thumbcache/internal/metrics"
	"github.com/thumbcache/thumbcache/pkg/utils"
)

var (
	cfgFile  string
	logLevel string
	cacheDir string
	noShared bool
)

var rootCmd = &cobra.Command{
	Use:   "thumbcache",
	Short: "Inspect and manage the on-disk thumbnail cache",
	Long: `thumbcache works with the shared on-disk thumbnail cache used by
image viewers and file managers: PNG entries keyed by the MD5 of the
source file's URI, carrying provenance records that tie each entry to
the source file and its modification time.

Examples:
  thumbcache lookup --width 200 --height 200 photo.jpg
  thumbcache store photo.jpg
  thumbcache verify ~/.cache/thumbnails/large/<key>.png --source photo.jpg
  thumbcache path photo.jpg`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "cache root directory (default: $XDG_CACHE_HOME/thumbnails)")
	rootCmd.PersistentFlags().BoolVar(&noShared, "no-shared", false, "skip the sibling .sh_thumbnails directory during lookup")
}

// runtime holds the wired-up components a subcommand operates on.
type runtime struct {
	cfg      *config.Configuration
	logger   *utils.Logger
	resolver *location.Resolver
	codec    *codec.PNG
	cache    *cache.ThumbnailCache
}

// newRuntime builds the runtime from defaults, optional config file,
// environment, and command-line flags, in that precedence order.
func newRuntime() (*runtime, error) {
	cfg := config.NewDefault()
	if cfgFile != "" {
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Global.LogLevel = logLevel
	}
	if cacheDir != "" {
		cfg.Cache.Directory = cacheDir
	}
	if noShared {
		cfg.Cache.SharedLookup = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := utils.SetupLogger(cfg.Global.LogLevel, cfg.Global.LogFile)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled: cfg.Monitoring.MetricsEnabled,
		Port:    cfg.Monitoring.MetricsPort,
		Path:    cfg.Monitoring.MetricsPath,
	})
	if err != nil {
		return nil, err
	}

	resolver := location.NewResolver(location.Options{
		Directory:    cfg.Cache.Directory,
		SharedLookup: cfg.Cache.SharedLookup,
	})
	png := codec.NewPNG()

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		codec:    png,
		cache: cache.New(cache.Options{
			Resolver: resolver,
			Codec:    png,
			Logger:   logger,
			Metrics:  collector,
		}),
	}, nil
}
