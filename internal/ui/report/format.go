package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/adibhanna/focusmeter/internal/models"
)

// FormatText renders a report as plain text for the terminal.
func FormatText(r models.SessionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-26s %d/100\n", "Overall focus score:", r.OverallFocusScore)
	fmt.Fprintf(&b, "%-26s %d\n", "Focus quality:", r.FocusQuality)
	fmt.Fprintf(&b, "%-26s %d\n", "Resilience:", r.Resilience)
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-26s %d min\n", "Total time:", r.TotalMinutes())
	fmt.Fprintf(&b, "%-26s %d min\n", "Productive:", r.ProductiveMinutes())
	fmt.Fprintf(&b, "%-26s %d min\n", "Unproductive:", r.UnproductiveMinutes())
	fmt.Fprintf(&b, "%-26s %d\n", "Successful nudges:", r.SuccessfulNudges)
	fmt.Fprintf(&b, "%-26s %.1f min\n", "Estimated time saved:", r.EstimatedTimeSavedMinutes)

	b.WriteString("\nTop distractions:\n")
	if len(r.TopDistractions) == 0 {
		b.WriteString("  none\n")
	}
	for _, d := range r.TopDistractions {
		fmt.Fprintf(&b, "  %-24s %d\n", truncate(d.Type, 24), d.Count)
	}

	b.WriteString("\nProductive sites:\n")
	if len(r.ProductiveSites) == 0 {
		b.WriteString("  none\n")
	}
	for _, site := range r.ProductiveSites {
		fmt.Fprintf(&b, "  %s\n", site)
	}

	if r.SummaryText != "" {
		fmt.Fprintf(&b, "\n%s\n", r.SummaryText)
	}

	return b.String()
}

func FormatJSON(r models.SessionReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal report")
	}
	return string(data), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
