package cfg

import (
	"cmp"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// GitHub search configuration
	GithubAPIURL string `long:"github-api-url" env:"GITHUB_API_URL" default:"https://api.github.com" description:"Base URL of the GitHub REST API"`
	GithubToken  string `long:"github-token" env:"GITHUB_TOKEN" description:"GitHub API token (optional, raises rate limits)"`
	MinStars     int    `long:"min-stars" env:"MIN_STARS" default:"1000" description:"Minimum star count for search queries"`

	// Cache configuration
	CachePath      string `long:"cache-path" env:"CACHE_PATH" description:"Path to the SQLite cache database (defaults to XDG data dir)"`
	CategoriesFile string `long:"categories-file" env:"CATEGORIES_FILE" description:"YAML file overriding the built-in category table (optional)"`

	// Background refresh configuration
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for refresh tasks"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Open Source Trends/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		GithubAPIURL:      raw.GithubAPIURL,
		GithubToken:       raw.GithubToken,
		MinStars:          raw.MinStars,
		CachePath:         raw.CachePath,
		CategoriesFile:    raw.CategoriesFile,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(xdg.DataHome, "trends", "cache.db")
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
