// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/audience-scope/internal/model"
)

// PageFunc is called after every fetched page of members with the running total.
type PageFunc func(fetched, total int)

// ProfileFetcher retrieves group metadata and member profiles.
type ProfileFetcher interface {
	GetGroup(ctx context.Context, link string) (*model.Group, error)
	GetMembers(ctx context.Context, groupID string, limit int, onPage PageFunc) ([]model.MemberProfile, error)
}

// GroupSearcher finds groups by free-text query.
type GroupSearcher interface {
	SearchGroups(ctx context.Context, query string, limit int) ([]model.Group, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Analysis operations
	SaveAnalysis(ctx context.Context, userID int64, groupID, groupName string, report *model.AnalysisReport) (*model.StoredAnalysis, error)
	GetAnalysis(ctx context.Context, id string) (*model.StoredAnalysis, error)
	GetRecentAnalyses(ctx context.Context, userID int64, limit int) ([]model.AnalysisSummary, error)
	CountAnalyses(ctx context.Context, userID int64) (int, error)

	// User statistics
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)
	MarkReportSaved(ctx context.Context, userID int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportCache stores finished reports keyed by group.
type ReportCache interface {
	Get(ctx context.Context, groupID string) (*model.AnalysisReport, error)
	Set(ctx context.Context, groupID string, report *model.AnalysisReport) error
	Invalidate(ctx context.Context, groupID string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
