package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/models"
)

var (
	// ErrNotConfigured means no base URL is set; no request was made.
	ErrNotConfigured = errors.New("collector api is not configured")

	// ErrMissingSessionID means /session/create answered without an identifier.
	ErrMissingSessionID = errors.New("no session_id returned from create session")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.Path, e.Status)
}

// Client talks to the session collector API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.APIConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient is used by tests to point at an httptest server.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// CreateSession registers a new session and returns its identifier.
func (c *Client) CreateSession(ctx context.Context, payload models.CreateSessionPayload) (models.Session, error) {
	var resp models.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/session/create", payload, &resp); err != nil {
		return models.Session{}, errors.Wrap(err, "create session")
	}

	id := resp.Identifier()
	if id == "" {
		return models.Session{}, ErrMissingSessionID
	}

	return models.Session{
		ID:                     id,
		Title:                  payload.Title,
		Description:            payload.DescriptionText(),
		PlannedDurationSeconds: payload.PlannedDurationSeconds,
		StartedAt:              resp.StartedTime(time.Now()),
	}, nil
}

func (c *Client) SendMetrics(ctx context.Context, payload models.MetricsPayload) error {
	if err := c.do(ctx, http.MethodPost, "/session/metrics", payload, nil); err != nil {
		return errors.Wrap(err, "send metrics")
	}
	return nil
}

func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	payload := models.EndSessionPayload{SessionID: sessionID}
	if err := c.do(ctx, http.MethodPost, "/session/end", payload, nil); err != nil {
		return errors.Wrap(err, "end session")
	}
	return nil
}

func (c *Client) GetReport(ctx context.Context, sessionID string) (models.SessionReport, error) {
	var report models.SessionReport
	path := "/session/" + url.PathEscape(sessionID) + "/report"
	if err := c.do(ctx, http.MethodGet, path, nil, &report); err != nil {
		return models.SessionReport{}, errors.Wrap(err, "fetch session report")
	}
	return report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s (request %s)", method, path, requestID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("collector: %s %s request %s: %s", method, path, requestID, resp.Status)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Status: resp.Status}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}
