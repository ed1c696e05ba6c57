// Package client provides a Go client for the football comparator HTTP API.
//
// It offers a type-safe way to perform all major operations, including:
//   - Dataset views (player list, player rows, projection, variance, loadings).
//   - Neighbor queries and hypothetical player placement.
//   - System administration tasks (dataset reload, task status).
//
// The client handles HTTP communication, JSON serialization/deserialization,
// bearer authentication and standardized error handling.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nico916/football-comparator/pkg/neighbors"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// --- Custom Errors ---

// APIError represents an error returned by the comparator API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

type playersResponse struct {
	Players []string `json:"players"`
	Count   int      `json:"count"`
}

type playerResponse struct {
	Player  string          `json:"player"`
	Entries []roster.Player `json:"entries"`
}

type varianceResponse struct {
	Components []pca.VarianceShare `json:"components"`
}

type loadingsResponse struct {
	Loadings []pca.Loading `json:"loadings"`
}

// Extent is the bounding box of the projection.
type Extent struct {
	MinPC1 float64 `json:"min_pc1"`
	MaxPC1 float64 `json:"max_pc1"`
	MinPC2 float64 `json:"min_pc2"`
	MaxPC2 float64 `json:"max_pc2"`
}

// Projection is the full coordinate table of the active dataset.
type Projection struct {
	Key        string          `json:"key"`
	FittedAt   time.Time       `json:"fitted_at"`
	Attributes []string        `json:"attributes"`
	Players    []roster.Player `json:"players"`
	Extent     Extent          `json:"extent"`
}

// NeighborReport holds the global and same-position neighbors of a player.
type NeighborReport struct {
	Player       string            `json:"player"`
	Position     roster.Position   `json:"position,omitempty"`
	Found        bool              `json:"found"`
	Global       []neighbors.Match `json:"global"`
	SamePosition []neighbors.Match `json:"same_position"`
}

// Placement is the projection of a hypothetical player.
type Placement struct {
	PC1       float64          `json:"pc1"`
	PC2       float64          `json:"pc2"`
	Archetype roster.Archetype `json:"archetype"`
}

// Task represents an asynchronous operation on the comparator server.
type Task struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	ProgressMessage string `json:"progress_message,omitempty"`
	Error           string `json:"error,omitempty"`
	Result          string `json:"result,omitempty"`

	client *Client // Reference to the client for polling.
}

// --- Client ---

// Client is the Go client for the comparator API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new client. baseURL is the server root (e.g.
// "http://localhost:9091"); token is sent as a bearer token when non-empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// jsonRequest is a helper method to execute all requests to the API.
// It handles JSON serialization, HTTP calls, and error management.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]any
		if json.Unmarshal(respBody, &errResp) == nil {
			msg, _ := errResp["error"].(string)
			return respBody, &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
		return respBody, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

// getJSON performs a GET and decodes the body into dst.
func (c *Client) getJSON(endpoint, what string, dst any) error {
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("invalid JSON response for %s: %w", what, err)
	}
	return nil
}

// Refresh updates the task's status by querying the server.
func (t *Task) Refresh() error {
	if t.client == nil {
		return fmt.Errorf("client is not associated with the task")
	}
	updatedTask, err := t.client.GetTaskStatus(t.ID)
	if err != nil {
		return err
	}
	t.Status = updatedTask.Status
	t.ProgressMessage = updatedTask.ProgressMessage
	t.Error = updatedTask.Error
	t.Result = updatedTask.Result
	return nil
}

// Wait blocks until the task is completed, checking its status at regular intervals.
func (t *Task) Wait(interval, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return fmt.Errorf("timeout exceeded while waiting for task %s", t.ID)
		case <-ticker.C:
			if err := t.Refresh(); err != nil {
				return err
			}
			switch t.Status {
			case "completed":
				return nil
			case "failed":
				return fmt.Errorf("task %s failed with error: %s", t.ID, t.Error)
			case "running", "started":
				// Continue waiting.
			default:
				return fmt.Errorf("unknown task status: %s", t.Status)
			}
		}
	}
}

// --- Dataset Methods ---

// Players returns the distinct player names in ascending order.
func (c *Client) Players() ([]string, error) {
	var resp playersResponse
	if err := c.getJSON("/api/players", "Players", &resp); err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// Player returns every row carrying name.
func (c *Client) Player(name string) ([]roster.Player, error) {
	var resp playerResponse
	if err := c.getJSON("/api/players/"+url.PathEscape(name), "Player", &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Projection returns the coordinate table of the active dataset.
func (c *Client) Projection() (*Projection, error) {
	var resp Projection
	if err := c.getJSON("/api/projection", "Projection", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Variance returns the explained-variance table.
func (c *Client) Variance() ([]pca.VarianceShare, error) {
	var resp varianceResponse
	if err := c.getJSON("/api/variance", "Variance", &resp); err != nil {
		return nil, err
	}
	return resp.Components, nil
}

// Loadings returns the PC1/PC2 loading of every attribute.
func (c *Client) Loadings() ([]pca.Loading, error) {
	var resp loadingsResponse
	if err := c.getJSON("/api/loadings", "Loadings", &resp); err != nil {
		return nil, err
	}
	return resp.Loadings, nil
}

// --- Query Methods ---

// Neighbors returns the k nearest players to name. k <= 0 uses the server
// default. An unknown player is not an error: the report has Found == false.
func (c *Client) Neighbors(name string, k int) (*NeighborReport, error) {
	q := url.Values{}
	q.Set("player", name)
	if k > 0 {
		q.Set("k", strconv.Itoa(k))
	}

	respBody, err := c.jsonRequest(http.MethodGet, "/api/neighbors?"+q.Encode(), nil)
	var apiErr *APIError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound) {
		return nil, err
	}

	var report NeighborReport
	if err := json.Unmarshal(respBody, &report); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Neighbors: %w", err)
	}
	return &report, nil
}

// Place projects a hypothetical stat line, keyed by attribute name.
func (c *Client) Place(attributes map[string]float64) (*Placement, error) {
	payload := map[string]any{"attributes": attributes}
	respBody, err := c.jsonRequest(http.MethodPost, "/api/place", payload)
	if err != nil {
		return nil, err
	}

	var placement Placement
	if err := json.Unmarshal(respBody, &placement); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Place: %w", err)
	}
	return &placement, nil
}

// --- Administration Methods ---

// Reload asks the server to re-read its dataset and returns a Task.
func (c *Client) Reload() (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/system/reload", nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Reload: %w", err)
	}
	task.client = c
	return &task, nil
}

// GetTaskStatus retrieves the status of a long-running task.
func (c *Client) GetTaskStatus(taskID string) (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/system/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("invalid JSON response for GetTaskStatus: %w", err)
	}
	task.client = c
	return &task, nil
}
