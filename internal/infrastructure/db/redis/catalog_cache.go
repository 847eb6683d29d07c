package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
	"github.com/presence-analyzer/dashboard/internal/pkg/metrics"
)

const (
	defaultCatalogTTL = 5 * time.Minute
	catalogKey        = "presence:catalog:users"
)

// CatalogCache keeps the users listing in Redis so dashboards opened within
// the TTL skip the presence API. Photos and chart data are never cached.
type CatalogCache struct {
	ports.PresenceAPI
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalogCache wraps next. A ttl <= 0 uses defaultCatalogTTL.
func NewCatalogCache(next ports.PresenceAPI, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{
		PresenceAPI: next,
		client:      client,
		ttl:         ttl,
		log:         log.With().Str("component", "catalog_cache").Logger(),
	}
}

// ListUsers returns the cached listing, or fetches and stores it. Redis
// failures degrade to a direct fetch.
func (c *CatalogCache) ListUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	switch {
	case err == nil:
		var users []domain.User
		if jsonErr := json.Unmarshal(raw, &users); jsonErr == nil {
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return users, nil
		}
		c.log.Warn().Msg("discarding undecodable cached user list")
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	default:
		c.log.Warn().Err(err).Msg("catalog cache read failed, fetching directly")
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
	}

	users, err := c.PresenceAPI.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, users); err != nil {
		c.log.Warn().Err(err).Msg("failed to cache user list")
	}
	return users, nil
}

// ChartData passes through to the presence API. A user the API no longer
// knows means the cached listing is out of date, so it is dropped and the
// next page load fetches a fresh one.
func (c *CatalogCache) ChartData(ctx context.Context, view domain.ViewSpec, id domain.UserID) ([]domain.SeriesPoint, error) {
	points, err := c.PresenceAPI.ChartData(ctx, view, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		if invErr := c.Invalidate(context.WithoutCancel(ctx)); invErr != nil {
			c.log.Warn().Err(invErr).Msg("failed to drop cached user list")
		} else {
			c.log.Info().Int("user_id", int(id)).Msg("cached user list dropped, user unknown upstream")
		}
	}
	return points, err
}

// Invalidate drops the cached listing.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

func (c *CatalogCache) store(ctx context.Context, users []domain.User) error {
	b, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode user list: %w", err)
	}
	return c.client.Set(ctx, catalogKey, b, c.ttl).Err()
}
