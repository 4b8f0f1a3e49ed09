// Package testutil provides shared test utilities for the audience-scope project.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.Store
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.Store) error
	SkipMigrations bool
}

// SetupTestDB creates a new migrated in-memory database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.MustSaveAnalysis(42, "123", "Go Devs", report)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustSaveAnalysis stores a report or fails the test.
func (db *TestDB) MustSaveAnalysis(userID int64, groupID, groupName string, report *model.AnalysisReport) *model.StoredAnalysis {
	db.t.Helper()
	stored, err := db.Storage.SaveAnalysis(context.Background(), userID, groupID, groupName, report)
	if err != nil {
		db.t.Fatalf("failed to save analysis for group %q: %v", groupID, err)
	}
	return stored
}
