package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/common"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewWithDB(db, DialectPostgres)
	store.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return store, mock
}

func TestRebind(t *testing.T) {
	pg := NewWithDB(nil, DialectPostgres)
	lite := NewWithDB(nil, DialectSQLite)

	query := `SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?`
	assert.Equal(t, `SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3`, pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
	assert.Equal(t, "postgres", pg.Dialect().String())
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://u@h/db"))
	assert.True(t, IsPostgresURL("postgresql://u@h/db"))
	assert.False(t, IsPostgresURL("/var/lib/scope.db"))
	assert.False(t, IsPostgresURL(":memory:"))
}

func TestPostgresSaveAnalysis(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`VALUES ($1, $2, $3, $4, $5, $6)`)).
		WithArgs(sqlmock.AnyArg(), int64(7), "123", "Go Devs", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, err := store.SaveAnalysis(context.Background(), 7, "123", "Go Devs", sampleReport(80))
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveAnalysisRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO analyses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_stats`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.SaveAnalysis(context.Background(), 7, "123", "Go Devs", sampleReport(80))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update user stats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetAnalysisNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "group_id", "group_name", "analysis_data", "created_at"}))

	_, err := store.GetAnalysis(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetUserStats(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_stats`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total_analyses", "saved_reports", "last_activity"}).
			AddRow(2, 1, created))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1`)).
		WithArgs(int64(3), RecentAnalysesInStats).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "group_name", "created_at", "has_data"}).
			AddRow("a1", "g1", "Group", created, 1).
			AddRow("a0", "g0", "Group", created.Add(-time.Hour), 0))

	stats, err := store.GetUserStats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAnalyses)
	assert.Equal(t, 1, stats.SavedReports)
	require.Len(t, stats.LastAnalyses, 2)
	assert.True(t, stats.LastAnalyses[0].HasData)
	assert.False(t, stats.LastAnalyses[1].HasData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_version`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM schema_version`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_analyses_user_created`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_analyses_group`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_version (version) VALUES ($1)`)).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_version`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM schema_version`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
