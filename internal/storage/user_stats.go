package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/audience-scope/internal/model"
)

// RecentAnalysesInStats is how many analyses GetUserStats lists.
const RecentAnalysesInStats = 5

// GetUserStats returns a user's counters and latest analyses. Unknown users get
// zeroed statistics.
func (s *Store) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stats := &model.UserStats{UserID: userID, LastAnalyses: []model.AnalysisSummary{}}
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT total_analyses, saved_reports, last_activity
		FROM user_stats
		WHERE user_id = ?`), userID).
		Scan(&stats.TotalAnalyses, &stats.SavedReports, &stats.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats.LastAnalyses, err = s.GetRecentAnalyses(ctx, userID, RecentAnalysesInStats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// MarkReportSaved counts a report the user exported.
func (s *Store) MarkReportSaved(ctx context.Context, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO user_stats (user_id, total_analyses, saved_reports, last_activity)
		VALUES (?, 0, 1, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			saved_reports = user_stats.saved_reports + 1,
			last_activity = excluded.last_activity`),
		userID, s.now())
	if err != nil {
		return fmt.Errorf("failed to mark report saved: %w", err)
	}
	return nil
}
