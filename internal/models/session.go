package models

import (
	"strings"
	"time"
)

// Session is a session the collector has accepted and the active view runs.
type Session struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	PlannedDurationSeconds int       `json:"planned_duration_seconds"`
	StartedAt              time.Time `json:"started_at"`
}

// CreateSessionPayload is the body of /session/create. An empty
// description is sent as null.
type CreateSessionPayload struct {
	Title                  string  `json:"title"`
	Description            *string `json:"description"`
	PlannedDurationSeconds int     `json:"planned_duration_seconds"`
}

// NewCreateSessionPayload trims its inputs and leaves Description nil when
// it is blank.
func NewCreateSessionPayload(title, description string, plannedSeconds int) CreateSessionPayload {
	p := CreateSessionPayload{
		Title:                  strings.TrimSpace(title),
		PlannedDurationSeconds: plannedSeconds,
	}
	if d := strings.TrimSpace(description); d != "" {
		p.Description = &d
	}
	return p
}

func (p CreateSessionPayload) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

type CreateSessionResponse struct {
	SessionID              string    `json:"session_id"`
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	PlannedDurationSeconds int       `json:"planned_duration_seconds"`
	StartedAt              string    `json:"started_at"`
}

// startedAtLayouts covers RFC 3339 and the zone-less forms some collectors
// emit for naive datetimes. Zone-less values are read as UTC.
var startedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// StartedTime parses started_at, returning fallback when it is missing or
// in no known layout. The value is informational, so it never fails.
func (r CreateSessionResponse) StartedTime(fallback time.Time) time.Time {
	for _, layout := range startedAtLayouts {
		if t, err := time.Parse(layout, r.StartedAt); err == nil {
			return t
		}
	}
	return fallback
}

// Identifier returns session_id, falling back to id for older collectors.
func (r CreateSessionResponse) Identifier() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.ID
}

type EndSessionPayload struct {
	SessionID string `json:"session_id"`
}

// DurationInput is the hours/minutes/seconds triple of the goal form.
type DurationInput struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func DefaultDuration() DurationInput {
	return DurationInput{Hours: 2, Minutes: 15, Seconds: 0}
}

// Clamp bounds hours to 0-23 and minutes/seconds to 0-59.
func (d DurationInput) Clamp() DurationInput {
	return DurationInput{
		Hours:   clamp(d.Hours, 0, 23),
		Minutes: clamp(d.Minutes, 0, 59),
		Seconds: clamp(d.Seconds, 0, 59),
	}
}

func (d DurationInput) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
