package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/competitor"
	"github.com/Veraticus/audience-scope/internal/config"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/storage"
	"github.com/Veraticus/audience-scope/internal/testutil/profiles"
)

// useConfig installs a default configuration backed by a temporary database
// for the duration of the test.
func useConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("database.url", filepath.Join(t.TempDir(), "scope.db"))
	cfg, err := config.Load(v)
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	prev := appCfg
	appCfg = cfg
	t.Cleanup(func() { appCfg = prev })
	return cfg
}

// fakeVK serves one open group with three members and an empty search.
type fakeVK struct {
	server        *httptest.Server
	closed        atomic.Bool
	memberQueries atomic.Int32
}

func newFakeVK(t *testing.T) *fakeVK {
	t.Helper()
	f := &fakeVK{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-token", r.PostForm.Get("access_token"))

		switch strings.TrimPrefix(r.URL.Path, "/method/") {
		case "groups.getById":
			closed := 0
			if f.closed.Load() {
				closed = 1
			}
			_, _ = fmt.Fprintf(w, `{"response":{"groups":[{"id":123,"name":"Golang курсы","screen_name":"golang","description":"курсы golang разработка","members_count":3,"is_closed":%d}]}}`, closed)
		case "groups.getMembers":
			f.memberQueries.Add(1)
			_, _ = fmt.Fprint(w, `{"response":{"count":3,"items":[{"id":1,"sex":2},{"id":2,"sex":1},{"id":3,"sex":2}]}}`)
		case "groups.search":
			_, _ = fmt.Fprint(w, `{"response":{"count":0,"items":[]}}`)
		default:
			t.Errorf("unexpected method %s", r.URL.Path)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeVK) configure(cfg *config.Config) {
	cfg.VK.Token = "test-token"
	cfg.VK.BaseURL = f.server.URL + "/method"
	cfg.VK.RequestDelay = 0
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeFile(t *testing.T) {
	useConfig(t, nil)

	data, err := json.Marshal(profiles.Mixed())
	require.NoError(t, err)

	dir := t.TempDir()
	arrayPath := filepath.Join(dir, "members.json")
	require.NoError(t, os.WriteFile(arrayPath, data, 0o600))

	objectPath := filepath.Join(dir, "object.json")
	require.NoError(t, os.WriteFile(objectPath, []byte(`{"group_name":"Go Devs","profiles":`+string(data)+`}`), 0o600))

	t.Run("array as json", func(t *testing.T) {
		out, err := execute(t, analyzeFileCmd(), arrayPath, "--output", "json")
		require.NoError(t, err)

		var got model.AnalysisReport
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 20, got.TotalMembersAnalyzed)
		assert.NotEmpty(t, got.Recommendations)
	})

	t.Run("object as text", func(t *testing.T) {
		out, err := execute(t, analyzeFileCmd(), objectPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Audience report: Go Devs")
		assert.Contains(t, out, "Analyzed 20 members")
		assert.NotContains(t, out, "vk.com/club0")
	})

	t.Run("file name as group name", func(t *testing.T) {
		out, err := execute(t, analyzeFileCmd(), arrayPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Audience report: members")
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"profiles": [`), 0o600))

		_, err := execute(t, analyzeFileCmd(), bad)
		require.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Contains(t, common.UserMessage(err), "not a valid profiles file")
	})

	t.Run("unknown output", func(t *testing.T) {
		_, err := execute(t, analyzeFileCmd(), arrayPath, "--output", "yaml")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestAnalyzeRequiresToken(t *testing.T) {
	useConfig(t, nil)

	_, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.ErrorIs(t, err, common.ErrMissingConfig)
	assert.Contains(t, common.UserMessage(err), "SCOPE_VK_TOKEN")
}

func TestAnalyzeClosedGroup(t *testing.T) {
	vk := newFakeVK(t)
	vk.closed.Store(true)
	useConfig(t, vk.configure)

	_, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.ErrorIs(t, err, common.ErrGroupClosed)
	assert.Zero(t, vk.memberQueries.Load())
}

func TestAnalyzeSavesToHistory(t *testing.T) {
	vk := newFakeVK(t)
	cfg := useConfig(t, vk.configure)

	out, err := execute(t, analyzeCmd(), "https://vk.com/club123", "--user", "42", "--output", "json")
	require.NoError(t, err)

	var rep model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.TotalMembersAnalyzed)

	out, err = execute(t, historyCmd(), "--user", "42", "--output", "json")
	require.NoError(t, err)
	var summaries []model.AnalysisSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "123", summaries[0].GroupID)
	assert.Equal(t, "Golang курсы", summaries[0].GroupName)

	out, err = execute(t, statsCmd(), "--user", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "User ID: 42")
	assert.Contains(t, out, "Golang курсы")

	exportPath := filepath.Join(t.TempDir(), "report.json")
	out, err = execute(t, showCmd(), summaries[0].ID, "--export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Audience report: Golang курсы")
	assert.Contains(t, out, "vk.com/club123")

	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var stored model.StoredAnalysis
	require.NoError(t, json.Unmarshal(exported, &stored))
	assert.Equal(t, summaries[0].ID, stored.ID)
	assert.Equal(t, int64(42), stored.UserID)

	store, err := storage.Open(cfg.Database.URL)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	stats, err := store.GetUserStats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalAnalyses)
	assert.Equal(t, 1, stats.SavedReports)
}

func TestAnalyzeUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	vk := newFakeVK(t)
	useConfig(t, func(cfg *config.Config) {
		vk.configure(cfg)
		cfg.Redis.URL = "redis://" + mr.Addr()
	})

	_, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.NoError(t, err)
	assert.Equal(t, int32(1), vk.memberQueries.Load())
	assert.True(t, mr.Exists("scope:report:123"))

	out, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 3 members")
	assert.Equal(t, int32(1), vk.memberQueries.Load(), "served from cache")

	_, err = execute(t, analyzeCmd(), "vk.com/club123", "--no-cache")
	require.NoError(t, err)
	assert.Equal(t, int32(2), vk.memberQueries.Load())
}

func TestAnalyzeCachesLimitedRunsSeparately(t *testing.T) {
	mr := miniredis.RunT(t)
	vk := newFakeVK(t)
	useConfig(t, func(cfg *config.Config) {
		vk.configure(cfg)
		cfg.Redis.URL = "redis://" + mr.Addr()
	})

	_, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.NoError(t, err)
	assert.Equal(t, int32(1), vk.memberQueries.Load())

	_, err = execute(t, analyzeCmd(), "vk.com/club123", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), vk.memberQueries.Load(), "limited run is not served the full report")
	assert.True(t, mr.Exists("scope:report:123:limit2"))

	_, err = execute(t, analyzeCmd(), "vk.com/club123", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), vk.memberQueries.Load(), "limited run served from its own entry")
}

func TestReportCacheKey(t *testing.T) {
	assert.Equal(t, "123", reportCacheKey("123", 0))
	assert.Equal(t, "123:limit100", reportCacheKey("123", 100))
}

func TestAnalyzeWithUnreachableCache(t *testing.T) {
	vk := newFakeVK(t)
	useConfig(t, func(cfg *config.Config) {
		vk.configure(cfg)
		cfg.Redis.URL = "redis://127.0.0.1:1"
	})

	out, err := execute(t, analyzeCmd(), "vk.com/club123")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 3 members")
}

func TestCompareCommand(t *testing.T) {
	vk := newFakeVK(t)
	useConfig(t, vk.configure)

	out, err := execute(t, compareCmd(), "vk.com/club123", "vk.com/golang", "--output", "json")
	require.NoError(t, err)

	var got comparisonOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.A)
	assert.Equal(t, "Golang курсы", got.A.Name)
	require.NotNil(t, got.Comparison)
	assert.Zero(t, got.Comparison.QualityDifference)
	assert.Equal(t, int32(2), vk.memberQueries.Load())
}

func TestCompetitorsWithoutMatches(t *testing.T) {
	vk := newFakeVK(t)
	useConfig(t, vk.configure)

	out, err := execute(t, competitorsCmd(), "vk.com/club123", "--output", "json")
	require.NoError(t, err)

	var got competitor.Ranking
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Golang курсы", got.TargetGroup)
	assert.Zero(t, got.TotalCompetitors)
	assert.Empty(t, got.Competitors)

	out, err = execute(t, competitorsCmd(), "vk.com/club123")
	require.NoError(t, err)
	assert.Contains(t, out, "No similar open groups found")
}

func TestShowUnknownAnalysis(t *testing.T) {
	useConfig(t, nil)

	_, err := execute(t, showCmd(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, common.UserMessage(err), "Analysis missing not found")
}

func TestHistoryRequiresUser(t *testing.T) {
	useConfig(t, nil)

	_, err := execute(t, historyCmd())
	assert.Error(t, err)

	_, err = execute(t, historyCmd(), "--user", "1", "--limit", "0")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMigrateCommand(t *testing.T) {
	useConfig(t, nil)

	out, err := execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, "Migrations pending")

	out, err = execute(t, migrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("from version 0 to %d", storage.ExpectedSchemaVersion))

	out, err = execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Current version: %d", storage.ExpectedSchemaVersion))
	assert.NotContains(t, out, "Migrations pending")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, versionCmd())
	require.NoError(t, err)
	assert.Equal(t, "scope dev\n", out)
}
