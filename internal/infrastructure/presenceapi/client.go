// Package presenceapi is the HTTP client of the remote presence service.
package presenceapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
	"github.com/presence-analyzer/dashboard/internal/pkg/metrics"
)

const (
	usersPath = "/api/v1/users"
	photoPath = "/api/v1/user/%d/photo"

	maxBodyBytes = 4 << 20
)

// Config captures the settings of the presence API client.
type Config struct {
	BaseURL string
	// Timeout bounds a single request. Zero leaves requests bounded only by
	// their context.
	Timeout time.Duration
}

// Client implements ports.PresenceAPI over JSON/HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger

	// listings coalesces concurrent users listings; every new page asks for it.
	listings singleflight.Group
}

var _ ports.PresenceAPI = (*Client)(nil)

// NewClient returns a Client for cfg.BaseURL.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		timeout: cfg.Timeout,
		log:     log.With().Str("component", "presence_api").Logger(),
	}
}

// ListUsers handles GET /api/v1/users.
// Concurrent callers share one request, which runs detached from any single
// caller and is bounded by the client timeout. A caller whose ctx ends stops
// waiting without failing the others. Each caller gets its own copy.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	ch := c.listings.DoChan(usersPath, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}
		var users []domain.User
		if err := c.getJSON(fetchCtx, "users", usersPath, &users); err != nil {
			return nil, err
		}
		return users, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list users: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("list users: %w", res.Err)
	}
	shared := res.Val.([]domain.User)
	users := make([]domain.User, len(shared))
	copy(users, shared)
	return users, nil
}

// UserPhotos handles GET /api/v1/user/{id}/photo.
func (c *Client) UserPhotos(ctx context.Context, id domain.UserID) ([]domain.Photo, error) {
	var raw []json.RawMessage
	if err := c.getJSON(ctx, "photo", fmt.Sprintf(photoPath, int(id)), &raw); err != nil {
		return nil, fmt.Errorf("user photos: %w", err)
	}

	photos := make([]domain.Photo, 0, len(raw))
	for _, r := range raw {
		// The service emits null when it cannot build a URL.
		var p struct {
			URL *string `json:"user_photo"`
		}
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("user photos: decode record: %w", err)
		}
		if p.URL == nil || *p.URL == "" {
			continue
		}
		photos = append(photos, domain.Photo{URL: *p.URL})
	}
	return photos, nil
}

// ChartData fetches the series behind view for id.
func (c *Client) ChartData(ctx context.Context, view domain.ViewSpec, id domain.UserID) ([]domain.SeriesPoint, error) {
	var raw []json.RawMessage
	if err := c.getJSON(ctx, "chart", view.ChartPath(id), &raw); err != nil {
		return nil, fmt.Errorf("chart data %s: %w", view.View, err)
	}
	points, err := decodeSeries(view.View, raw)
	if err != nil {
		return nil, fmt.Errorf("chart data %s: %w", view.View, err)
	}
	return points, nil
}

// Ping checks that the presence API answers the users listing.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+usersPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	start := time.Now()
	result := "ok"
	defer func() {
		metrics.UpstreamFetchesTotal.WithLabelValues(endpoint, result).Inc()
		metrics.UpstreamFetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		result = "error"
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			result = "canceled"
			return err
		}
		result = "error"
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		result = "not_found"
		return domain.ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		result = "error"
		return fmt.Errorf("%w: GET %s returned %d", domain.ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result = "error"
		return fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		result = "error"
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, path, err)
	}

	c.log.Trace().Str("path", path).Dur("took", time.Since(start)).Msg("fetched")
	return nil
}
