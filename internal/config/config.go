package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr           string     `json:"httpAddr"`
	DataDir            string     `json:"dataDir"`
	Fsync              string     `json:"fsync"`
	FsyncIntervalMs    int        `json:"fsyncIntervalMs"`
	MaxFetchPerAttempt int        `json:"maxFetchPerAttempt"`
	Gate               GateConfig `json:"gate"`
	Log                LogConfig  `json:"log"`
}

// GateConfig selects and parameterizes the capability authority.
type GateConfig struct {
	// Mode is "static" (in-process token lists) or "remote" (HTTP
	// authority endpoint).
	Mode          string   `json:"mode"`
	AuthorityURL  string   `json:"authorityUrl"`
	UploadTokens  []string `json:"uploadTokens"`
	ProcessTokens []string `json:"processTokens"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		Fsync:              "always",
		FsyncIntervalMs:    5,
		MaxFetchPerAttempt: 10,
		Gate: GateConfig{
			Mode: "static",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the runtime cannot act on.
func (c Config) Validate() error {
	switch c.Fsync {
	case "always", "interval", "off":
	default:
		return fmt.Errorf("config: unknown fsync mode %q", c.Fsync)
	}
	switch c.Gate.Mode {
	case "static":
	case "remote":
		if c.Gate.AuthorityURL == "" {
			return fmt.Errorf("config: gate mode remote requires authorityUrl")
		}
	default:
		return fmt.Errorf("config: unknown gate mode %q", c.Gate.Mode)
	}
	if c.MaxFetchPerAttempt <= 0 {
		return fmt.Errorf("config: maxFetchPerAttempt must be positive")
	}
	return nil
}
