package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
)

// createTestStorage opens a migrated in-memory store whose clock advances one
// second per call.
func createTestStorage(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func sampleReport(score float64) *model.AnalysisReport {
	return &model.AnalysisReport{
		Gender:               &model.GenderDistribution{Male: 60, Female: 40},
		AgeGroups:            &model.AgeDistribution{Buckets: map[string]float64{"18-24": 100}, AverageAge: 21},
		Recommendations:      []string{"💡 tip"},
		AudienceQualityScore: score,
		TotalMembersAnalyzed: 10,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))
	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	var indexCount int
	err = store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_analyses_user_created'`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scope.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	assert.Equal(t, DialectSQLite, store.Dialect())
}

func TestSaveAndGetAnalysis(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saved, err := store.SaveAnalysis(ctx, 7, "123", "  Go Devs  ", sampleReport(75.5))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Go Devs", saved.GroupName)

	got, err := store.GetAnalysis(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "123", got.GroupID)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, sampleReport(75.5), got.Report)
}

func TestGetAnalysisNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetAnalysis(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveAnalysisTruncatesLongNames(t *testing.T) {
	store := createTestStorage(t)

	saved, err := store.SaveAnalysis(context.Background(), 1, "1", strings.Repeat("я", 300), sampleReport(50))
	require.NoError(t, err)
	assert.Equal(t, model.MaxGroupNameLength, len([]rune(saved.GroupName)))
}

func TestSaveAnalysisValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveAnalysis(ctx, 1, " ", "name", sampleReport(50))
	assert.ErrorIs(t, err, ErrEmptyString)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = store.SaveAnalysis(ctx, 1, "1", "name", nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	count, err := store.CountAnalyses(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserStats(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	empty, err := store.GetUserStats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), empty.UserID)
	assert.Zero(t, empty.TotalAnalyses)
	assert.NotNil(t, empty.LastAnalyses)
	assert.Empty(t, empty.LastAnalyses)

	var ids []string
	for i := range 7 {
		saved, err := store.SaveAnalysis(ctx, 42, "g", "Group", sampleReport(float64(i)))
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}
	_, err = store.SaveAnalysis(ctx, 99, "other", "Other", sampleReport(1))
	require.NoError(t, err)
	require.NoError(t, store.MarkReportSaved(ctx, 42))
	require.NoError(t, store.MarkReportSaved(ctx, 42))

	stats, err := store.GetUserStats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalAnalyses)
	assert.Equal(t, 2, stats.SavedReports)
	require.Len(t, stats.LastAnalyses, RecentAnalysesInStats)
	assert.Equal(t, ids[6], stats.LastAnalyses[0].ID, "newest first")
	assert.Equal(t, ids[2], stats.LastAnalyses[4].ID)
	assert.True(t, stats.LastAnalyses[0].HasData)

	count, err := store.CountAnalyses(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestMarkReportSavedForNewUser(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.MarkReportSaved(ctx, 5))

	stats, err := store.GetUserStats(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SavedReports)
	assert.Zero(t, stats.TotalAnalyses)
}

func TestGetRecentAnalyses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveAnalysis(ctx, 1, "a", "A", sampleReport(10))
	require.NoError(t, err)
	_, err = store.SaveAnalysis(ctx, 1, "b", "B", &model.AnalysisReport{})
	require.NoError(t, err)

	recent, err := store.GetRecentAnalyses(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].GroupID)
	assert.False(t, recent[0].HasData, "empty report carries no data")
	assert.True(t, recent[1].HasData)

	_, err = store.GetRecentAnalyses(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
