package workload

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid workload config")

// Config describes one run.
type Config struct {
	Duration      time.Duration `yaml:"duration" json:"duration"`
	Threads       int           `yaml:"threads" json:"threads"`
	InitialSize   int64         `yaml:"initial_size" json:"initial_size"`
	KeyRange      int64         `yaml:"key_range" json:"key_range"`
	InsertPercent int           `yaml:"insert_percent" json:"insert_percent"`
	DeletePercent int           `yaml:"delete_percent" json:"delete_percent"`
	Seed          uint64        `yaml:"seed" json:"seed"`
	// RandomFill draws the initial keys at random instead of using 1..InitialSize.
	RandomFill bool `yaml:"random_fill" json:"random_fill"`
	Verify     bool `yaml:"verify" json:"verify"`
}

// DefaultConfig returns the standard mixed workload: eight threads, keys
// {1..1000} prefilled, 10% inserts and 10% deletes over [1,2000].
func DefaultConfig() Config {
	return Config{
		Duration:      5 * time.Second,
		Threads:       8,
		InitialSize:   1000,
		KeyRange:      2000,
		InsertPercent: 10,
		DeletePercent: 10,
		Verify:        true,
	}
}

// fileConfig mirrors Config with durations spelled as strings, so JSON files
// can say "5s" like YAML files do.
type fileConfig struct {
	Duration      string  `yaml:"duration" json:"duration"`
	Threads       *int    `yaml:"threads" json:"threads"`
	InitialSize   *int64  `yaml:"initial_size" json:"initial_size"`
	KeyRange      *int64  `yaml:"key_range" json:"key_range"`
	InsertPercent *int    `yaml:"insert_percent" json:"insert_percent"`
	DeletePercent *int    `yaml:"delete_percent" json:"delete_percent"`
	Seed          *uint64 `yaml:"seed" json:"seed"`
	RandomFill    *bool   `yaml:"random_fill" json:"random_fill"`
	Verify        *bool   `yaml:"verify" json:"verify"`
}

// LoadFile reads a YAML or JSON config. Settings missing from the file keep
// their DefaultConfig values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}

	return fc.toConfig()
}

func (fc fileConfig) toConfig() (Config, error) {
	cfg := DefaultConfig()
	if fc.Duration != "" {
		d, err := time.ParseDuration(fc.Duration)
		if err != nil {
			return cfg, fmt.Errorf("invalid duration: %w", err)
		}
		cfg.Duration = d
	}
	if fc.Threads != nil {
		cfg.Threads = *fc.Threads
	}
	if fc.InitialSize != nil {
		cfg.InitialSize = *fc.InitialSize
	}
	if fc.KeyRange != nil {
		cfg.KeyRange = *fc.KeyRange
	}
	if fc.InsertPercent != nil {
		cfg.InsertPercent = *fc.InsertPercent
	}
	if fc.DeletePercent != nil {
		cfg.DeletePercent = *fc.DeletePercent
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.RandomFill != nil {
		cfg.RandomFill = *fc.RandomFill
	}
	if fc.Verify != nil {
		cfg.Verify = *fc.Verify
	}
	return cfg, nil
}

// Validate checks that the config describes a runnable workload.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("%w: threads must be positive", ErrInvalidConfig)
	}
	if c.KeyRange <= 0 {
		return fmt.Errorf("%w: key_range must be positive", ErrInvalidConfig)
	}
	if c.InitialSize < 0 || c.InitialSize > c.KeyRange {
		return fmt.Errorf("%w: initial_size must be between 0 and key_range", ErrInvalidConfig)
	}
	if c.InsertPercent < 0 || c.DeletePercent < 0 || c.InsertPercent+c.DeletePercent > 100 {
		return fmt.Errorf("%w: insert_percent and delete_percent must be non-negative and sum to at most 100", ErrInvalidConfig)
	}
	return nil
}
