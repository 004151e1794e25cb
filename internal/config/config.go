package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"x4map/internal/lookup"
	"x4map/internal/streaming"
)

// Config holds every setting of the command line tools
type Config struct {
	AssetsDir string
	Database  DatabaseConfig
	Logging   LoggingConfig
	Parsing   ParsingConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
	File  string
}

type ParsingConfig struct {
	DefaultPage  string
	ProgressStep int
	ProgressRate float64
	ReadReportMB int
}

type AnalyticsConfig struct {
	NATSURL string
	Subject string
}

// Enabled reports whether analytics events should be published
func (a AnalyticsConfig) Enabled() bool {
	return a.NATSURL != ""
}

// Load reads .env (when present) and the environment
func Load() (*Config, error) {
	// a missing .env file is fine, the environment still applies
	_ = godotenv.Load()

	config := load()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func load() *Config {
	step, _ := strconv.Atoi(GetEnv("X4MAP_PROGRESS_STEP", "1"))
	rate, _ := strconv.ParseFloat(GetEnv("X4MAP_PROGRESS_RATE", "20"), 64)
	readMB, _ := strconv.Atoi(GetEnv("X4MAP_READ_REPORT_MB", "5"))

	return &Config{
		AssetsDir: GetEnv("X4MAP_ASSETS_DIR", "assets"),
		Database: DatabaseConfig{
			Path: GetEnv("X4MAP_DB_PATH", "x4map.db"),
		},
		Logging: LoggingConfig{
			Level: GetEnv("X4MAP_LOG_LEVEL", "info"),
			File:  GetEnv("X4MAP_LOG_FILE", ""),
		},
		Parsing: ParsingConfig{
			DefaultPage:  GetEnv("X4MAP_DEFAULT_PAGE", lookup.DefaultPageID),
			ProgressStep: step,
			ProgressRate: rate,
			ReadReportMB: readMB,
		},
		Analytics: AnalyticsConfig{
			NATSURL: GetEnv("X4MAP_NATS_URL", ""),
			Subject: GetEnv("X4MAP_NATS_SUBJECT", "x4map.save.processed"),
		},
	}
}

// Validate rejects settings the parser cannot work with
func (c *Config) Validate() error {
	var errs []error
	if c.Parsing.DefaultPage == "" {
		errs = append(errs, errors.New("X4MAP_DEFAULT_PAGE must not be empty"))
	}
	if c.Parsing.ProgressStep <= 0 {
		errs = append(errs, errors.New("X4MAP_PROGRESS_STEP must be positive"))
	}
	if c.Parsing.ProgressRate <= 0 {
		errs = append(errs, errors.New("X4MAP_PROGRESS_RATE must be positive"))
	}
	if c.Parsing.ReadReportMB <= 0 {
		errs = append(errs, errors.New("X4MAP_READ_REPORT_MB must be positive"))
	}
	if c.Analytics.Enabled() && c.Analytics.Subject == "" {
		errs = append(errs, errors.New("X4MAP_NATS_SUBJECT must not be empty when analytics are enabled"))
	}
	return errors.Join(errs...)
}

// StreamingOptions converts the parsing settings to pipeline options
func (c *Config) StreamingOptions() streaming.Options {
	opts := streaming.DefaultOptions()
	opts.ProgressStep = c.Parsing.ProgressStep
	opts.ProgressRate = c.Parsing.ProgressRate
	opts.ReadReportBytes = int64(c.Parsing.ReadReportMB) * 1024 * 1024
	return opts
}

// LoadTables loads the lookup tables from the assets directory
func (c *Config) LoadTables() (*lookup.Tables, error) {
	tables, err := lookup.Load(c.AssetsDir)
	if err != nil {
		return nil, err
	}
	tables.DefaultPage = c.Parsing.DefaultPage
	return tables, nil
}

// GetEnv returns the value of key, or def when it is unset or empty
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
