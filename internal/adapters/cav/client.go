// Package cav is the HTTP client for the roster/milpacs API.
//
// The API exposes lite rosters by type and one milpacs profile per member.
// All calls carry a bearer token and go through a shared rate limiter; bulk
// profile fetches fan out with bounded concurrency. A failed fetch is
// recorded and skipped, never fatal to the batch.
package cav

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
	"github.com/cavops/muster/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout     = 30 * time.Second
	defaultRateLimit   = 5.0 // requests per second
	defaultBurst       = 5
	defaultConcurrency = 5
	maxErrorBodyBytes  = 512
)

// Roster types known to the API. Used as <T> in ROSTER_TYPE_<T>.
var DefaultRosterTypes = []string{"COMBAT", "RESERVE", "ELOA"}

// RosterEntry is one member on a lite roster.
type RosterEntry struct {
	Username string `json:"username"`
}

// Roster is the lite roster payload: member profiles keyed by member ID.
type Roster struct {
	Profiles map[string]RosterEntry `json:"profiles"`
}

// Failure records one member whose profile could not be fetched.
type Failure struct {
	MemberID string
	Err      error
}

// Client calls the roster/milpacs API.
type Client struct {
	baseURL     string
	token       string
	httpc       *http.Client
	limiter     *rate.Limiter
	concurrency int

	logger logger.Logger
}

// NewClient creates a client for the given API base URL with configuration
// options.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		token:       token,
		httpc:       &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		concurrency: defaultConcurrency,
		logger:      logger.Get().Named("cav"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Roster fetches the lite roster for one roster type, e.g. "COMBAT".
func (c *Client) Roster(ctx context.Context, rosterType string) (Roster, error) {
	var roster Roster
	url := fmt.Sprintf("%s/api/v1/roster/ROSTER_TYPE_%s/lite", c.baseURL, rosterType)
	if err := c.get(ctx, url, &roster); err != nil {
		return Roster{}, fmt.Errorf("fetch roster %s: %w", rosterType, err)
	}
	return roster, nil
}

// Profile fetches one member's milpacs profile.
func (c *Client) Profile(ctx context.Context, memberID string) (model.Profile, error) {
	var p model.Profile
	url := fmt.Sprintf("%s/api/v1/milpacs/profile/id/%s", c.baseURL, memberID)

	start := time.Now()
	err := c.get(ctx, url, &p)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchFailure()
		return model.Profile{}, fmt.Errorf("fetch profile %s: %w", memberID, err)
	}
	if p.User.ID == "" {
		p.User.ID = memberID
	}
	metrics.RecordFetchSuccess()
	return p, nil
}

// FetchProfiles fetches profiles for all member IDs with bounded
// concurrency. Failures are collected, logged and returned alongside the
// successes; they never abort the batch.
func (c *Client) FetchProfiles(ctx context.Context, memberIDs []string) ([]model.Profile, []Failure) {
	var (
		mu       sync.Mutex
		profiles []model.Profile
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, id := range memberIDs {
		id := id
		g.Go(func() error {
			p, err := c.Profile(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn(gctx, "profile fetch failed",
					logger.String("memberID", id),
					logger.Error(err),
				)
				failures = append(failures, Failure{MemberID: id, Err: err})
				return nil
			}
			profiles = append(profiles, p)
			return nil
		})
	}
	// Workers swallow per-member errors; Wait only reports ctx cancellation.
	_ = g.Wait()

	return profiles, failures
}

// get performs one rate-limited, authenticated GET and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
