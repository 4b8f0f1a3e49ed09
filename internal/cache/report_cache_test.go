package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/model"
)

func setupCache(t *testing.T, ttl time.Duration) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewReportCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func testReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		Gender:               &model.GenderDistribution{Male: 55, Female: 45},
		AgeGroups:            &model.AgeDistribution{Buckets: map[string]float64{"25-34": 80}, UnknownPercentage: 20},
		AudienceQualityScore: 72.5,
		TotalMembersAnalyzed: 200,
	}
}

func TestReportCacheRoundTrip(t *testing.T) {
	c, mr := setupCache(t, time.Hour)
	ctx := context.Background()

	miss, err := c.Get(ctx, "123")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Set(ctx, "123", testReport()))
	assert.True(t, mr.Exists("scope:report:123"))
	assert.Equal(t, time.Hour, mr.TTL("scope:report:123"))

	hit, err := c.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, testReport(), hit)
}

func TestReportCacheExpires(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "g", testReport()))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "g")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCacheInvalidate(t *testing.T) {
	c, _ := setupCache(t, 0)
	ctx := context.Background()
	assert.Equal(t, DefaultTTL, c.ttl)

	require.NoError(t, c.Set(ctx, "g", testReport()))
	require.NoError(t, c.Invalidate(ctx, "g"))
	require.NoError(t, c.Invalidate(ctx, "never-set"))

	got, err := c.Get(ctx, "g")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCacheCorruptEntry(t *testing.T) {
	c, mr := setupCache(t, time.Hour)
	require.NoError(t, mr.Set("scope:report:bad", "not json"))

	_, err := c.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "failed to decode cached report")
}

func TestReportCacheServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewReportCache(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), time.Hour)
	defer func() { _ = c.Close() }()
	mr.Close()

	_, err = c.Get(context.Background(), "g")
	assert.Error(t, err)
}

func TestDial(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := Dial(context.Background(), "redis://"+mr.Addr()+"/0", time.Hour)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	require.NoError(t, c.Set(context.Background(), "g", testReport()))

	_, err = Dial(context.Background(), "not-a-url", time.Hour)
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "g", testReport()))
	got, err := c.Get(ctx, "g")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx, "g"))
}
