// Package config provides configuration management for the scanner.
package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Defaults applied by normalization when the corresponding field is unset.
const (
	// defaultRiskFreeRate feeds the theoretical pricing fallback
	defaultRiskFreeRate = 0.1075
	// defaultFallbackVol is assumed when a leg has no implied volatility
	defaultFallbackVol = 0.35
	// defaultCreditWidthCap rejects credits above this fraction of width
	defaultCreditWidthCap = 0.85
	// defaultLotSize is the standard contract multiplier
	defaultLotSize = 100
	// defaultHistoryLimit bounds the persisted scan history
	defaultHistoryLimit = 50
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Scan        ScanConfig        `yaml:"scan"`
	Feed        FeedConfig        `yaml:"feed"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
}

// EnvironmentConfig defines the runtime environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// ScanConfig defines the evaluation and ranking parameters.
type ScanConfig struct {
	FeePerLeg      float64 `yaml:"fee_per_leg"`
	LotSize        int     `yaml:"lot_size"`
	MaxRiskReward  float64 `yaml:"max_risk_reward"` // 0 disables the filter
	RiskFreeRate   float64 `yaml:"risk_free_rate"`
	FallbackVol    float64 `yaml:"fallback_vol"`
	CreditWidthCap float64 `yaml:"credit_width_cap"`
	SortByReturn   bool    `yaml:"sort_by_return"`
}

// FeedConfig defines where the option-chain snapshot comes from.
type FeedConfig struct {
	Source    string  `yaml:"source"` // csv | http | mock
	Path      string  `yaml:"path"`
	URL       string  `yaml:"url"`
	Symbol    string  `yaml:"symbol"`
	SpotPrice float64 `yaml:"spot_price"` // required for csv and mock, ignored for http
}

// ServerConfig defines the dashboard HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// StorageConfig defines persistence settings for scan history.
type StorageConfig struct {
	Path         string `yaml:"path"`
	HistoryLimit int    `yaml:"history_limit"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks that all configuration values are valid and consistent,
// normalizing unset fields to their defaults first.
func (c *Config) Validate() error {
	c.normalize()

	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug|info|warn|error")
	}

	if c.Scan.FeePerLeg < 0 {
		return fmt.Errorf("scan.fee_per_leg must be >= 0")
	}
	if c.Scan.LotSize <= 0 {
		return fmt.Errorf("scan.lot_size must be > 0")
	}
	if c.Scan.MaxRiskReward < 0 {
		return fmt.Errorf("scan.max_risk_reward must be >= 0")
	}
	if c.Scan.RiskFreeRate <= 0 || c.Scan.RiskFreeRate >= 1 {
		return fmt.Errorf("scan.risk_free_rate must be in (0,1)")
	}
	if c.Scan.FallbackVol <= 0 || c.Scan.FallbackVol > 1 {
		return fmt.Errorf("scan.fallback_vol must be in (0,1]")
	}
	if c.Scan.CreditWidthCap <= 0 || c.Scan.CreditWidthCap >= 1 {
		return fmt.Errorf("scan.credit_width_cap must be in (0,1)")
	}

	switch c.Feed.Source {
	case "csv":
		if c.Feed.Path == "" {
			return fmt.Errorf("feed.path is required for the csv source")
		}
		if c.Feed.SpotPrice <= 0 {
			return fmt.Errorf("feed.spot_price must be > 0 for the csv source")
		}
	case "http":
		if c.Feed.URL == "" {
			return fmt.Errorf("feed.url is required for the http source")
		}
	case "mock":
		if c.Feed.SpotPrice <= 0 {
			return fmt.Errorf("feed.spot_price must be > 0 for the mock source")
		}
	default:
		return fmt.Errorf("feed.source must be one of csv|http|mock")
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("feed.symbol is required")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [0,65535]")
	}
	if c.Storage.HistoryLimit <= 0 {
		return fmt.Errorf("storage.history_limit must be > 0")
	}

	return nil
}

// normalize sets default values for unset fields.
func (c *Config) normalize() {
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Scan.LotSize == 0 {
		c.Scan.LotSize = defaultLotSize
	}
	if c.Scan.RiskFreeRate == 0 {
		c.Scan.RiskFreeRate = defaultRiskFreeRate
	}
	if c.Scan.FallbackVol == 0 {
		c.Scan.FallbackVol = defaultFallbackVol
	}
	if c.Scan.CreditWidthCap == 0 {
		c.Scan.CreditWidthCap = defaultCreditWidthCap
	}
	if c.Feed.Source == "" {
		c.Feed.Source = "csv"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "scans.json"
	}
	if c.Storage.HistoryLimit == 0 {
		c.Storage.HistoryLimit = defaultHistoryLimit
	}
}
