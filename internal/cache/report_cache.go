// Package cache keeps finished analysis reports in Redis so repeated requests for
// the same group skip the VK round trip.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 6 * time.Hour

// ReportCache stores reports as JSON under scope:report:<group>.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ service.ReportCache = (*ReportCache)(nil)
	_ service.ReportCache = NopCache{}
)

// NewReportCache wraps an existing client.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Dial connects to the Redis server named by url and verifies the connection.
func Dial(ctx context.Context, url string, ttl time.Duration) (*ReportCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return NewReportCache(client, ttl), nil
}

// Close closes the underlying client.
func (c *ReportCache) Close() error {
	return c.client.Close()
}

// Key helpers
func reportKey(groupID string) string {
	return fmt.Sprintf("scope:report:%s", groupID)
}

// Get returns the cached report or nil on a miss.
func (c *ReportCache) Get(ctx context.Context, groupID string) (*model.AnalysisReport, error) {
	data, err := c.client.Get(ctx, reportKey(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

// Set stores a report for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, groupID string, report *model.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(groupID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate drops the cached report for a group.
func (c *ReportCache) Invalidate(ctx context.Context, groupID string) error {
	if err := c.client.Del(ctx, reportKey(groupID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

// NopCache never stores anything. It stands in when Redis is not configured.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) (*model.AnalysisReport, error) { return nil, nil }

// Set discards the report.
func (NopCache) Set(context.Context, string, *model.AnalysisReport) error { return nil }

// Invalidate does nothing.
func (NopCache) Invalidate(context.Context, string) error { return nil }
