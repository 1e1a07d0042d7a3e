package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays OOP_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("OOP_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("OOP_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("OOP_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("OOP_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("OOP_MAX_FETCH_PER_ATTEMPT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFetchPerAttempt = n
		}
	}
	if v := os.Getenv("OOP_GATE_MODE"); v != "" {
		cfg.Gate.Mode = v
	}
	if v := os.Getenv("OOP_GATE_AUTHORITY_URL"); v != "" {
		cfg.Gate.AuthorityURL = v
	}
	if v := os.Getenv("OOP_GATE_UPLOAD_TOKENS"); v != "" {
		cfg.Gate.UploadTokens = splitTokens(v)
	}
	if v := os.Getenv("OOP_GATE_PROCESS_TOKENS"); v != "" {
		cfg.Gate.ProcessTokens = splitTokens(v)
	}
	if v := os.Getenv("OOP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OOP_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func splitTokens(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
