// Package storage provides the Redis-backed report cache for riftcoach.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riftcoach/internal/config"
	"github.com/riftcoach/internal/report"
)

// ReportCache caches finished coaching reports keyed by match and
// participant. Entries are immutable once written; concurrent writers for
// the same key overwrite with an equivalent value (last writer wins, which
// only matters because generation text itself is not deterministic).
type ReportCache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
}

// NewReportCache creates a report cache. When Redis is not configured the
// cache runs disabled and every operation is a no-op.
func NewReportCache(cfg *config.Config) *ReportCache {
	if cfg.RedisURL == "" {
		log.Println("Redis not configured (REDIS_URL missing), report cache disabled")
		return &ReportCache{ttl: cfg.ReportCacheTTL}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Failed to parse REDIS_URL: %v", err)
		return &ReportCache{ttl: cfg.ReportCacheTTL}
	}

	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis connection failed: %v", err)
		return &ReportCache{ttl: cfg.ReportCacheTTL}
	}

	log.Println("Redis connected successfully")
	return &ReportCache{client: client, ttl: cfg.ReportCacheTTL, enabled: true}
}

// Enabled reports whether the cache is backed by a live Redis connection.
func (c *ReportCache) Enabled() bool {
	return c.enabled
}

func cacheKey(matchID string, participantID int) string {
	return fmt.Sprintf("coach:report:%s:%d", matchID, participantID)
}

// Get returns a cached report, or nil on miss or when disabled.
func (c *ReportCache) Get(ctx context.Context, matchID string, participantID int) (*report.Report, error) {
	if !c.enabled {
		return nil, nil
	}

	val, err := c.client.Get(ctx, cacheKey(matchID, participantID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r report.Report
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &r, nil
}

// Set stores a report with the configured TTL. No-op when disabled.
func (c *ReportCache) Set(ctx context.Context, r *report.Report) error {
	if !c.enabled || r == nil {
		return nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return c.client.Set(ctx, cacheKey(r.MatchID, r.ParticipantID), string(data), c.ttl).Err()
}
