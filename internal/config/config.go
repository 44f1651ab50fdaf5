package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMissingAPIBaseURL is returned by Validate when no collector URL is set.
// Callers log it and skip network calls instead of exiting.
var ErrMissingAPIBaseURL = errors.New("api base url is not configured (set FOCUSMETER_API_BASE_URL)")

// Config holds all application configuration
type Config struct {
	// Collector API configuration
	API APIConfig `yaml:"api"`

	// Attention tracking configuration
	Tracker TrackerConfig `yaml:"tracker"`

	// LogFile receives the application log while the terminal UI is running
	LogFile string `yaml:"log_file"`
}

// APIConfig holds the collector endpoint configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url"` // e.g. http://localhost:4000
	Timeout time.Duration `yaml:"timeout"`  // Per-request timeout
}

// TrackerConfig holds the attention sampling policy
type TrackerConfig struct {
	SampleInterval   time.Duration `yaml:"sample_interval"`    // How often focus state is sampled
	ReportInterval   time.Duration `yaml:"report_interval"`    // How often metrics are posted
	FocusThreshold   float64       `yaml:"focus_threshold"`    // Score at or above which time is productive
	IgnoreBelow      time.Duration `yaml:"ignore_below"`       // Away intervals shorter than this are noise
	LongAbsenceAbove time.Duration `yaml:"long_absence_above"` // Away intervals longer than this are long absences
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "",
			Timeout: 10 * time.Second,
		},
		Tracker: TrackerConfig{
			SampleInterval:   time.Second,
			ReportInterval:   30 * time.Second,
			FocusThreshold:   60,
			IgnoreBelow:      5 * time.Second,
			LongAbsenceAbove: 30 * time.Second,
		},
		LogFile: defaultLogFile(),
	}
}

func defaultLogFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "focusmeter.log"
	}
	return filepath.Join(homeDir, ".focusmeter", "focusmeter.log")
}

// Validate checks if the configuration is valid. A missing base URL is
// reported as ErrMissingAPIBaseURL only after every other field passes.
func (c *Config) Validate() error {
	if c.API.Timeout <= 0 {
		return errors.Errorf("api timeout must be positive, got %v", c.API.Timeout)
	}

	if c.Tracker.SampleInterval <= 0 {
		return errors.Errorf("sample interval must be positive, got %v", c.Tracker.SampleInterval)
	}

	if c.Tracker.ReportInterval < c.Tracker.SampleInterval {
		return errors.Errorf("report interval (%v) cannot be less than sample interval (%v)",
			c.Tracker.ReportInterval, c.Tracker.SampleInterval)
	}

	if c.Tracker.FocusThreshold < 0 || c.Tracker.FocusThreshold > 100 {
		return errors.Errorf("focus threshold must be between 0 and 100, got %v", c.Tracker.FocusThreshold)
	}

	if c.Tracker.IgnoreBelow < 0 {
		return errors.Errorf("ignore threshold cannot be negative")
	}

	if c.Tracker.LongAbsenceAbove < c.Tracker.IgnoreBelow {
		return errors.Errorf("long absence threshold (%v) cannot be less than ignore threshold (%v)",
			c.Tracker.LongAbsenceAbove, c.Tracker.IgnoreBelow)
	}

	if c.API.BaseURL == "" {
		return ErrMissingAPIBaseURL
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return errors.Errorf("api base url must start with http:// or https://, got %q", c.API.BaseURL)
	}

	return nil
}

// SetBaseURL sets the collector base URL, dropping any trailing slash
func (c *Config) SetBaseURL(url string) {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(url), "/")
}

// String returns a string representation of the config
func (c *Config) String() string {
	baseURL := c.API.BaseURL
	if baseURL == "" {
		baseURL = "(not set)"
	}
	return fmt.Sprintf(`Configuration:
  API:
    Base URL: %s
    Timeout: %v
  Tracker:
    Sample Interval: %v
    Report Interval: %v
    Focus Threshold: %v
    Ignore Below: %v
    Long Absence Above: %v
  Log File: %s`,
		baseURL,
		c.API.Timeout,
		c.Tracker.SampleInterval,
		c.Tracker.ReportInterval,
		c.Tracker.FocusThreshold,
		c.Tracker.IgnoreBelow,
		c.Tracker.LongAbsenceAbove,
		c.LogFile,
	)
}
