package models

type DistractionType string

const (
	TabSwitch   DistractionType = "tab_switch"
	LongAbsence DistractionType = "long_absence"
)

// DistractionTypes lists the categories in the order they are reported.
var DistractionTypes = []DistractionType{TabSwitch, LongAbsence}

type Distraction struct {
	Type  DistractionType `json:"type"`
	Count int             `json:"count"`
}

// MetricsPayload is the cumulative snapshot posted to /session/metrics.
type MetricsPayload struct {
	SessionID           string        `json:"session_id"`
	AvgFocusScore       int           `json:"avg_focus_score"`
	ProductiveSeconds   int           `json:"productive_seconds"`
	UnproductiveSeconds int           `json:"unproductive_seconds"`
	Distractions        []Distraction `json:"distractions"`
}

type ReportDistraction struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SessionReport is returned by GET /session/{id}/report.
type SessionReport struct {
	OverallFocusScore         int                 `json:"overall_focus_score"`
	FocusQuality              int                 `json:"focus_quality"`
	Resilience                int                 `json:"resilience"`
	SuccessfulNudges          int                 `json:"successful_nudges"`
	EstimatedTimeSavedMinutes float64             `json:"estimated_time_saved_minutes"`
	ProductiveTimeSeconds     int                 `json:"productive_time_seconds"`
	UnproductiveTimeSeconds   int                 `json:"unproductive_time_seconds"`
	TopDistractions           []ReportDistraction `json:"top_distractions"`
	ProductiveSites           []string            `json:"productive_sites"`
	SummaryText               string              `json:"summary_text"`
}

func (r SessionReport) TotalMinutes() int {
	return roundDiv(r.ProductiveTimeSeconds+r.UnproductiveTimeSeconds, 60)
}

func (r SessionReport) ProductiveMinutes() int {
	return roundDiv(r.ProductiveTimeSeconds, 60)
}

func (r SessionReport) UnproductiveMinutes() int {
	return roundDiv(r.UnproductiveTimeSeconds, 60)
}

func roundDiv(a, b int) int {
	return (a + b/2) / b
}
