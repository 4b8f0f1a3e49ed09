package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
)

// SaveAnalysis stores a report and bumps the requester's statistics in one transaction.
func (s *Store) SaveAnalysis(ctx context.Context, userID int64, groupID, groupName string, report *model.AnalysisReport) (*model.StoredAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(groupID, "groupID"); err != nil {
		return nil, err
	}
	if err := validateReport(report); err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	stored := &model.StoredAnalysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		GroupID:   groupID,
		GroupName: truncateName(groupName),
		Report:    report,
		CreatedAt: s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO analyses (id, user_id, group_id, group_name, analysis_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		stored.ID, stored.UserID, stored.GroupID, stored.GroupName, string(data), stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert analysis: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO user_stats (user_id, total_analyses, saved_reports, last_activity)
		VALUES (?, 1, 0, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_analyses = user_stats.total_analyses + 1,
			last_activity = excluded.last_activity`),
		userID, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update user stats: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit analysis: %w", err)
	}

	slog.Info("Saved analysis",
		"id", stored.ID,
		"user_id", userID,
		"group_id", groupID)
	return stored, nil
}

// GetAnalysis loads a stored analysis by id.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*model.StoredAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		stored model.StoredAnalysis
		data   string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, user_id, group_id, group_name, analysis_data, created_at
		FROM analyses
		WHERE id = ?`), id).
		Scan(&stored.ID, &stored.UserID, &stored.GroupID, &stored.GroupName, &data, &stored.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	stored.Report = &model.AnalysisReport{}
	if err := json.Unmarshal([]byte(data), stored.Report); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &stored, nil
}

// GetRecentAnalyses lists a user's analyses, newest first.
func (s *Store) GetRecentAnalyses(ctx context.Context, userID int64, limit int) ([]model.AnalysisSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, group_id, group_name, created_at,
			CASE WHEN analysis_data = '' OR analysis_data = '{}' THEN 0 ELSE 1 END
		FROM analyses
		WHERE user_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []model.AnalysisSummary{}
	for rows.Next() {
		var (
			a       model.AnalysisSummary
			hasData int
		)
		if err := rows.Scan(&a.ID, &a.GroupID, &a.GroupName, &a.CreatedAt, &hasData); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		a.HasData = hasData == 1
		summaries = append(summaries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return summaries, nil
}

// CountAnalyses returns how many analyses a user has stored.
func (s *Store) CountAnalyses(ctx context.Context, userID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM analyses WHERE user_id = ?`), userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}
