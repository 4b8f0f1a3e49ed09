package model

import "time"

// MaxGroupNameLength bounds the stored group name.
const MaxGroupNameLength = 255

// StoredAnalysis is a persisted analysis report.
type StoredAnalysis struct {
	CreatedAt time.Time       `json:"created_at"`
	Report    *AnalysisReport `json:"report,omitempty"`
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	GroupName string          `json:"group_name"`
	UserID    int64           `json:"user_id"`
}

// AnalysisSummary is a lightweight listing entry for a stored analysis.
type AnalysisSummary struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name"`
	HasData   bool      `json:"has_data"`
}

// UserStats aggregates the activity of one requester.
type UserStats struct {
	LastActivity  time.Time         `json:"last_activity"`
	LastAnalyses  []AnalysisSummary `json:"last_analyses"`
	UserID        int64             `json:"user_id"`
	TotalAnalyses int               `json:"total_analyses"`
	SavedReports  int               `json:"saved_reports"`
}
