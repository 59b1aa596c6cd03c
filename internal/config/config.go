// File path: internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable of the tool. Values resolve in three layers:
// built-in defaults, then an optional JSON config file, then ATLAS_*
// environment variables. Later layers win field by field.
type Config struct {
	SnapshotPath string `json:"snapshot_path"`
	BackupDir    string `json:"backup_dir"`
	BackupCount  int    `json:"backup_count"`
	OutputDir    string `json:"output_dir"`
	DocPath      string `json:"doc_path"`

	CatalogDSN string `json:"catalog_dsn"`
	ListenAddr string `json:"listen_addr"`

	Analysis AnalysisConfig `json:"analysis"`
	Watch    WatchConfig    `json:"watch"`
	OpenAI   OpenAIConfig   `json:"openai"`
}

type AnalysisConfig struct {
	MinPatternFrequency int `json:"min_pattern_frequency"`
	MaxPatternLength    int `json:"max_pattern_length"`
}

type WatchConfig struct {
	Debounce       time.Duration `json:"-"`
	DebounceString string        `json:"debounce"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

// Default returns the built-in configuration, mirroring the layout the tool
// creates on first run: snapshot and backups beside the working directory,
// documentation under documentation/.
func Default() Config {
	return Config{
		SnapshotPath: "shortcuts_db.json",
		BackupDir:    "backups",
		BackupCount:  5,
		OutputDir:    "documentation",
		DocPath:      filepath.Join("documentation", "shortcuts_documentation.md"),
		ListenAddr:   "127.0.0.1:8080",
		Analysis: AnalysisConfig{
			MinPatternFrequency: 2,
			MaxPatternLength:    5,
		},
		Watch: WatchConfig{Debounce: 2 * time.Second},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// Load resolves the effective configuration. path may be empty, in which case
// the ATLAS_CONFIG_FILE environment variable is consulted; a missing file is
// only an error when it was named explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv("ATLAS_CONFIG_FILE"))
	}
	if strings.TrimSpace(path) != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		} else {
			cfg = cfg.Merge(fileCfg)
		}
	}
	envCfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

// Merge overlays non-zero fields of override onto c and returns the result.
func (c Config) Merge(override Config) Config {
	result := c
	if v := strings.TrimSpace(override.SnapshotPath); v != "" {
		result.SnapshotPath = v
	}
	if v := strings.TrimSpace(override.BackupDir); v != "" {
		result.BackupDir = v
	}
	if override.BackupCount > 0 {
		result.BackupCount = override.BackupCount
	}
	if v := strings.TrimSpace(override.OutputDir); v != "" {
		result.OutputDir = v
	}
	if v := strings.TrimSpace(override.DocPath); v != "" {
		result.DocPath = v
	}
	if v := strings.TrimSpace(override.CatalogDSN); v != "" {
		result.CatalogDSN = v
	}
	if v := strings.TrimSpace(override.ListenAddr); v != "" {
		result.ListenAddr = v
	}
	if override.Analysis.MinPatternFrequency > 0 {
		result.Analysis.MinPatternFrequency = override.Analysis.MinPatternFrequency
	}
	if override.Analysis.MaxPatternLength > 0 {
		result.Analysis.MaxPatternLength = override.Analysis.MaxPatternLength
	}
	if override.Watch.Debounce > 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}
	if v := strings.TrimSpace(override.Watch.DebounceString); v != "" {
		result.Watch.DebounceString = v
	}
	if v := strings.TrimSpace(override.OpenAI.APIKey); v != "" {
		result.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(override.OpenAI.BaseURL); v != "" {
		result.OpenAI.BaseURL = v
	}
	if v := strings.TrimSpace(override.OpenAI.Model); v != "" {
		result.OpenAI.Model = v
	}
	return result
}

func (c *Config) applyDefaults() {
	if c.BackupCount <= 0 {
		c.BackupCount = 5
	}
	if c.Analysis.MinPatternFrequency <= 0 {
		c.Analysis.MinPatternFrequency = 2
	}
	if c.Analysis.MaxPatternLength < 2 {
		c.Analysis.MaxPatternLength = 5
	}
	if c.Watch.Debounce <= 0 {
		if c.Watch.DebounceString != "" {
			if parsed, err := time.ParseDuration(c.Watch.DebounceString); err == nil {
				c.Watch.Debounce = parsed
			}
		}
		if c.Watch.Debounce <= 0 {
			c.Watch.Debounce = 2 * time.Second
		}
	}
	if strings.TrimSpace(c.DocPath) == "" {
		c.DocPath = filepath.Join(c.OutputDir, "shortcuts_documentation.md")
	}
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func fromEnv() (Config, error) {
	cfg := Config{}
	if v := strings.TrimSpace(os.Getenv("ATLAS_SNAPSHOT")); v != "" {
		cfg.SnapshotPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_BACKUP_DIR")); v != "" {
		cfg.BackupDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_BACKUP_COUNT")); v != "" {
		count, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse ATLAS_BACKUP_COUNT: %w", err)
		}
		if count > 0 {
			cfg.BackupCount = count
		}
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_DOC_PATH")); v != "" {
		cfg.DocPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_CATALOG_DSN")); v != "" {
		cfg.CatalogDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_MIN_PATTERN_FREQUENCY")); v != "" {
		freq, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse ATLAS_MIN_PATTERN_FREQUENCY: %w", err)
		}
		if freq > 0 {
			cfg.Analysis.MinPatternFrequency = freq
		}
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_MAX_PATTERN_LENGTH")); v != "" {
		length, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse ATLAS_MAX_PATTERN_LENGTH: %w", err)
		}
		if length > 0 {
			cfg.Analysis.MaxPatternLength = length
		}
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_WATCH_DEBOUNCE")); v != "" {
		cfg.Watch.DebounceString = v
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ATLAS_OPENAI_MODEL")); v != "" {
		cfg.OpenAI.Model = v
	}
	return cfg, nil
}
