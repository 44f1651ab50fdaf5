package config_test

import (
	"fmt"

	"github.com/adibhanna/focusmeter/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Sample Interval:", cfg.Tracker.SampleInterval)
	fmt.Println("Report Interval:", cfg.Tracker.ReportInterval)
	fmt.Println("Focus Threshold:", cfg.Tracker.FocusThreshold)
	// Output:
	// Sample Interval: 1s
	// Report Interval: 30s
	// Focus Threshold: 60
}

// Example of validating configuration without a collector URL
func ExampleConfig_Validate() {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	}

	cfg.SetBaseURL("http://localhost:4000/")
	if err := cfg.Validate(); err == nil {
		fmt.Println("Configuration is valid:", cfg.API.BaseURL)
	}

	// Output:
	// Invalid config: api base url is not configured (set FOCUSMETER_API_BASE_URL)
	// Configuration is valid: http://localhost:4000
}
