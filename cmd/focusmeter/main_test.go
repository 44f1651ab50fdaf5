package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adibhanna/focusmeter/internal/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FOCUSMETER_API_BASE_URL",
		"FOCUSMETER_API_TIMEOUT",
		"FOCUSMETER_REPORT_INTERVAL",
		"FOCUSMETER_FOCUS_THRESHOLD",
		"FOCUSMETER_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func reportServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/abc/report" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(models.SessionReport{
			OverallFocusScore:     81,
			ProductiveTimeSeconds: 1200,
			SummaryText:           "Solid session.",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigCommandAppliesAPIURLFlag(t *testing.T) {
	out, err := execute(t, "config", "--api-url", "http://collector.local/")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, "Base URL: http://collector.local\n") {
		t.Errorf("output missing trimmed base url:\n%s", out)
	}
}

func TestConfigCommandWithoutURL(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("missing url should not fail the config command: %v", err)
	}
	if !strings.Contains(out, "(not set)") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommandRejectsBadURL(t *testing.T) {
	if _, err := execute(t, "config", "--api-url", "collector.local"); err == nil {
		t.Fatal("expected an error for a url without scheme")
	}
}

func TestReportCommandText(t *testing.T) {
	srv := reportServer(t)

	out, err := execute(t, "report", "abc", "--api-url", srv.URL)
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	for _, want := range []string{"81/100", "20 min", "Solid session."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportCommandJSON(t *testing.T) {
	srv := reportServer(t)

	out, err := execute(t, "report", "abc", "--json", "--api-url", srv.URL)
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	var decoded models.SessionReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if decoded.OverallFocusScore != 81 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestReportCommandNotFound(t *testing.T) {
	srv := reportServer(t)

	if _, err := execute(t, "report", "nope", "--api-url", srv.URL); err == nil {
		t.Fatal("expected an error for an unknown session")
	}
}

func TestReportCommandRequiresID(t *testing.T) {
	if _, err := execute(t, "report"); err == nil {
		t.Fatal("expected an argument error")
	}
}
