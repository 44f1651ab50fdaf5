package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	if baseURL := os.Getenv("FOCUSMETER_API_BASE_URL"); baseURL != "" {
		cfg.SetBaseURL(baseURL)
	}

	if timeout := os.Getenv("FOCUSMETER_API_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.API.Timeout = time.Duration(seconds) * time.Second
		}
	}

	if interval := os.Getenv("FOCUSMETER_REPORT_INTERVAL"); interval != "" {
		if seconds, err := strconv.Atoi(interval); err == nil && seconds > 0 {
			cfg.Tracker.ReportInterval = time.Duration(seconds) * time.Second
		}
	}

	if threshold := os.Getenv("FOCUSMETER_FOCUS_THRESHOLD"); threshold != "" {
		if val, err := strconv.ParseFloat(threshold, 64); err == nil && val >= 0 && val <= 100 {
			cfg.Tracker.FocusThreshold = val
		}
	}

	if logFile := os.Getenv("FOCUSMETER_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
}
