package testprofiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cavops/muster/internal/domain/types"
)

// client wraps the HTTP calls against the target service.
type client struct {
	baseURL string
	httpc   *http.Client
}

// triggerRun posts /runs and returns the run ID.
func (c *client) triggerRun(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/runs", nil)
	if err != nil {
		return "", fmt.Errorf("build run request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("trigger run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("trigger run: status %d: %s", resp.StatusCode, string(body))
	}
	var ack struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode run ack: %w", err)
	}
	return ack.RunID, nil
}

// summary fetches /summary. A 404 means no run has published yet.
func (c *client) summary(ctx context.Context) (types.RunSummary, bool, error) {
	var s types.RunSummary
	found, err := c.getJSON(ctx, "/summary", &s)
	return s, found, err
}

// strengthRange fetches /strength for an inclusive date range.
func (c *client) strengthRange(ctx context.Context, from, to string) ([]types.StrengthEntry, error) {
	var entries []types.StrengthEntry
	path := fmt.Sprintf("/strength?from=%s&to=%s", from, to)
	if _, err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// retention fetches /retention.
func (c *client) retention(ctx context.Context) ([]types.RetentionEntry, error) {
	var entries []types.RetentionEntry
	if _, err := c.getJSON(ctx, "/retention", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// getJSON performs one GET and decodes the response. Returns false without
// error on a 404.
func (c *client) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
