// Package community provides an HTTP client for the GymBo REST API. It is
// used where the caller runs in a different process than the service: the
// stdio MCP binary in remote mode and the export CLI.
package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/storage"
)

// Client calls the GymBo REST API. Each operation is a single fire-and-await
// request with no retry; a failure surfaces immediately to the caller.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL. userID is sent as
// the identity header on every request; empty means anonymous.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchCatalog queries the merged catalog with the standard filters.
func (c *Client) SearchCatalog(ctx context.Context, query string, muscles, equipment []string) ([]models.Exercise, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	for _, m := range muscles {
		params.Add("muscle", m)
	}
	for _, e := range equipment {
		params.Add("equipment", e)
	}

	var result []models.Exercise
	if err := c.get(ctx, "/api/v1/catalog", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CommunityExercises returns the active community exercises, normalized.
func (c *Client) CommunityExercises(ctx context.Context) ([]models.Exercise, error) {
	var result []models.Exercise
	if err := c.get(ctx, "/api/v1/community/exercises", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UserWorkouts returns the saved workouts for the client's user. The userID
// parameter is ignored: identity travels as the client's header.
func (c *Client) UserWorkouts(ctx context.Context, _ string) ([]storage.UserWorkoutRow, error) {
	var result []storage.UserWorkoutRow
	if err := c.get(ctx, "/api/v1/workouts", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CommunityWorkouts returns the active community workouts.
func (c *Client) CommunityWorkouts(ctx context.Context) ([]storage.CommunityWorkoutRow, error) {
	var result []storage.CommunityWorkoutRow
	if err := c.get(ctx, "/api/v1/community/workouts", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitExercise sends a new exercise suggestion for community review. It
// satisfies the builder's Submitter interface for split deployments.
func (c *Client) SubmitExercise(ctx context.Context, in catalog.CustomInput, _ string) error {
	var resp struct {
		SubmissionID string `json:"submissionId"`
	}
	return c.post(ctx, "/api/v1/community/exercises", in, &resp)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("community client: create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("community client: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("community client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("community client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("community client: reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("community client: %s %s: %s", req.Method, req.URL.Path, apiErr.Error)
		}
		return fmt.Errorf("community client: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("community client: decoding response: %w", err)
	}
	return nil
}
