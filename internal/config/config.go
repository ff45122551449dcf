// Package config loads service settings from defaults, an optional JSON5
// file and environment variables, in increasing priority.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/fortuna/plutus/internal/ingest/bbref"
	"github.com/fortuna/plutus/internal/ingest/hoopshype"
	"github.com/fortuna/plutus/internal/ingest/scrape"
	"github.com/fortuna/plutus/internal/salary"
)

// Config is the resolved service configuration
type Config struct {
	DatabaseDSN string
	RedisURL    string
	RESTPort    string
	WSPort      string

	CurrentSeason salary.Season
	RequestDelay  time.Duration
	UseBrowser    bool
	HoopsHypeURL  string
	BBRefURL      string
	CacheTTL      time.Duration

	DailyRefreshHour   int
	EnableDailyRefresh bool
	RefreshOnStart     bool
}

// File mirrors Config as written in a JSON5 file. Durations use time.ParseDuration syntax.
type File struct {
	DatabaseDSN        string `json:"database_dsn"`
	RedisURL           string `json:"redis_url"`
	RESTPort           string `json:"rest_port"`
	WSPort             string `json:"ws_port"`
	CurrentSeason      string `json:"current_season"`
	RequestDelay       string `json:"request_delay"`
	UseBrowser         *bool  `json:"use_browser"`
	HoopsHypeURL       string `json:"hoopshype_url"`
	BBRefURL           string `json:"bbref_url"`
	CacheTTL           string `json:"cache_ttl"`
	DailyRefreshHour   *int   `json:"daily_refresh_hour"`
	EnableDailyRefresh *bool  `json:"enable_daily_refresh"`
	RefreshOnStart     *bool  `json:"refresh_on_start"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DatabaseDSN:        "sqlite://plutus.db",
		RESTPort:           "8080",
		WSPort:             "8081",
		CurrentSeason:      salary.SeasonFor(time.Now()),
		RequestDelay:       scrape.DefaultRequestDelay,
		HoopsHypeURL:       hoopshype.BaseURL,
		BBRefURL:           bbref.BaseURL,
		CacheTTL:           time.Hour,
		DailyRefreshHour:   6,
		EnableDailyRefresh: true,
		RefreshOnStart:     true,
	}
}

// Load resolves the configuration. path may be empty or name a missing file;
// a sibling <name>.local.<ext> overrides values from path.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, found, err := ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if found {
			if err := cfg.apply(file); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
			log.Printf("✓ Loaded config from %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}

	if !cfg.CurrentSeason.Valid() {
		return cfg, fmt.Errorf("invalid season %q", cfg.CurrentSeason)
	}
	if cfg.DailyRefreshHour < 0 || cfg.DailyRefreshHour > 23 {
		return cfg, fmt.Errorf("daily refresh hour %d out of range", cfg.DailyRefreshHour)
	}
	return cfg, nil
}

// ReadFile reads path and merges its .local sibling over it
func ReadFile(path string) (File, bool, error) {
	var out File
	found := false

	base, err := readJSON5(path)
	if err != nil && !os.IsNotExist(err) {
		return out, false, err
	}
	if err == nil {
		out = base
		found = true
	}

	local, err := readJSON5(localPath(path))
	if err != nil && !os.IsNotExist(err) {
		return out, false, err
	}
	if err == nil {
		if err := mergo.Merge(&out, local, mergo.WithOverride); err != nil {
			return out, false, err
		}
		log.Printf("merging config with local overrides from %s", localPath(path))
		found = true
	}

	return out, found, nil
}

func readJSON5(path string) (File, error) {
	var out File
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// localPath turns config.json5 into config.local.json5
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func (c *Config) apply(f File) error {
	setString(&c.DatabaseDSN, f.DatabaseDSN)
	setString(&c.RedisURL, f.RedisURL)
	setString(&c.RESTPort, f.RESTPort)
	setString(&c.WSPort, f.WSPort)
	setString(&c.HoopsHypeURL, f.HoopsHypeURL)
	setString(&c.BBRefURL, f.BBRefURL)
	if f.CurrentSeason != "" {
		c.CurrentSeason = salary.Season(f.CurrentSeason)
	}

	if err := setDuration(&c.RequestDelay, f.RequestDelay); err != nil {
		return fmt.Errorf("request_delay: %w", err)
	}
	if err := setDuration(&c.CacheTTL, f.CacheTTL); err != nil {
		return fmt.Errorf("cache_ttl: %w", err)
	}

	if f.UseBrowser != nil {
		c.UseBrowser = *f.UseBrowser
	}
	if f.DailyRefreshHour != nil {
		c.DailyRefreshHour = *f.DailyRefreshHour
	}
	if f.EnableDailyRefresh != nil {
		c.EnableDailyRefresh = *f.EnableDailyRefresh
	}
	if f.RefreshOnStart != nil {
		c.RefreshOnStart = *f.RefreshOnStart
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RESTPort = getEnv("REST_PORT", c.RESTPort)
	c.WSPort = getEnv("WS_PORT", c.WSPort)
	c.CurrentSeason = salary.Season(getEnv("CURRENT_SEASON", string(c.CurrentSeason)))
	c.HoopsHypeURL = getEnv("HOOPSHYPE_URL", c.HoopsHypeURL)
	c.BBRefURL = getEnv("BBREF_URL", c.BBRefURL)

	if err := setDuration(&c.RequestDelay, getEnv("REQUEST_DELAY", "")); err != nil {
		return fmt.Errorf("REQUEST_DELAY: %w", err)
	}
	if err := setDuration(&c.CacheTTL, getEnv("CACHE_TTL", "")); err != nil {
		return fmt.Errorf("CACHE_TTL: %w", err)
	}

	if v := getEnv("DAILY_REFRESH_HOUR", ""); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAILY_REFRESH_HOUR: %w", err)
		}
		c.DailyRefreshHour = hour
	}

	for key, dst := range map[string]*bool{
		"USE_BROWSER":          &c.UseBrowser,
		"ENABLE_DAILY_REFRESH": &c.EnableDailyRefresh,
		"REFRESH_ON_START":     &c.RefreshOnStart,
	} {
		if err := setBool(dst, getEnv(key, "")); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setBool accepts the strconv.ParseBool forms: 1, t, TRUE, false, ...
func setBool(dst *bool, v string) error {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
