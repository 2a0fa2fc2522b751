// Package jupyter polls a Jupyter-compatible notebook server for session
// activity.
package jupyter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Session is one entry from the notebook server's sessions API.
type Session struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Kernel Kernel `json:"kernel"`
}

// Kernel is the kernel block of a session.
type Kernel struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ExecutionState string    `json:"execution_state"`
	LastActivity   time.Time `json:"last_activity"`
	Connections    int       `json:"connections"`
}

// Client talks to the notebook server's REST API.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewClient creates a Client for the given base URL. token may be empty for
// servers that run without token auth.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Sessions fetches the live session list.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("jupyter: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupyter: fetch sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupyter: sessions returned %s", resp.Status)
	}

	var sessions []Session
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("jupyter: decode sessions: %w", err)
	}
	return sessions, nil
}
