package competitor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
	"github.com/Veraticus/audience-scope/internal/testutil/profiles"
)

func competitorWith(members int, quality float64, categories ...string) Competitor {
	return Competitor{
		Group:  model.Group{Name: "competitor", MembersCount: members, Categories: categories},
		Report: &model.AnalysisReport{AudienceQualityScore: quality, TotalMembersAnalyzed: 10},
	}
}

func unanalyzed(members int) Competitor {
	return Competitor{Group: model.Group{Name: "unanalyzed", MembersCount: members}}
}

func TestRankWithoutCompetitors(t *testing.T) {
	r := Rank(&model.Group{Name: "target"}, &model.AnalysisReport{AudienceQualityScore: 70}, nil)

	assert.Equal(t, "target", r.TargetGroup)
	assert.Zero(t, r.TotalCompetitors)
	assert.Zero(t, r.Rank)
	assert.Empty(t, r.Strengths)
	assert.Empty(t, r.Weaknesses)
	assert.Empty(t, r.Recommendations)
	assert.NotNil(t, r.Competitors)
}

func TestRankWithoutAnalyzedCompetitors(t *testing.T) {
	r := Rank(&model.Group{Name: "target"}, &model.AnalysisReport{AudienceQualityScore: 70},
		[]Competitor{unanalyzed(100), unanalyzed(200)})

	assert.Equal(t, 2, r.TotalCompetitors)
	assert.Zero(t, r.CompetitorsAnalyzed)
	assert.Zero(t, r.Rank)
	assert.Empty(t, r.Recommendations)
}

func TestRankLeader(t *testing.T) {
	target := &model.Group{Name: "target", MembersCount: 3000}
	competitors := []Competitor{
		competitorWith(1000, 70, "sport", "health"),
		competitorWith(1000, 60, "sport", "food"),
		unanalyzed(1000),
	}
	competitors[2].Categories = []string{"travel"}

	r := Rank(target, &model.AnalysisReport{AudienceQualityScore: 80}, competitors)

	assert.Equal(t, 3, r.TotalCompetitors)
	assert.Equal(t, 2, r.CompetitorsAnalyzed)
	assert.Equal(t, 1, r.Rank)
	assert.InDelta(t, 80.0, r.TargetQuality, 1e-9)
	assert.InDelta(t, 65.0, r.AvgCompetitorQuality, 1e-9)
	assert.Equal(t, []string{
		"Your audience quality is 15.0 points above the competitor average",
		"Your audience is 3.0x larger than the competitor average",
	}, r.Strengths)
	assert.Empty(t, r.Weaknesses)
	assert.Equal(t, []string{
		"🎉 Your group leads its competitors! Keep it up.",
		"🎯 Main competitor topics: sport, health, food",
	}, r.Recommendations)
}

func TestRankTrailing(t *testing.T) {
	target := &model.Group{Name: "target", MembersCount: 100}
	competitors := []Competitor{
		competitorWith(1000, 90),
		competitorWith(1000, 80),
		competitorWith(1000, 70),
		competitorWith(1000, 60),
	}

	r := Rank(target, &model.AnalysisReport{AudienceQualityScore: 50}, competitors)

	assert.Equal(t, 5, r.Rank)
	assert.InDelta(t, 75.0, r.AvgCompetitorQuality, 1e-9)
	assert.Empty(t, r.Strengths)
	assert.Equal(t, []string{
		"Your audience quality is 25.0 points below the competitor average",
		"Your audience is 10.0x smaller than the competitor average",
	}, r.Weaknesses)
	assert.Equal(t, []string{
		"📈 You are ranked #5. Study the market leaders and adopt their best practices.",
		"⚡ Work on audience quality through better content.",
	}, r.Recommendations)
}

func TestRankTiesAndBands(t *testing.T) {
	tests := []struct {
		name            string
		targetSize      int
		targetQuality   float64
		competitors     []Competitor
		wantRank        int
		wantStrengths   []string
		wantWeaknesses  []string
		wantFirstAdvice string
	}{
		{
			name:            "equal quality shares the top spot",
			targetSize:      1000,
			targetQuality:   70,
			competitors:     []Competitor{competitorWith(1000, 70)},
			wantRank:        1,
			wantStrengths:   []string{},
			wantWeaknesses:  []string{"Your audience quality is 0.0 points below the competitor average"},
			wantFirstAdvice: "🎉 Your group leads its competitors! Keep it up.",
		},
		{
			name:            "top three",
			targetSize:      1000,
			targetQuality:   70,
			competitors:     []Competitor{competitorWith(1000, 80), competitorWith(1000, 70)},
			wantRank:        2,
			wantStrengths:   []string{},
			wantWeaknesses:  []string{"Your audience quality is 5.0 points below the competitor average"},
			wantFirstAdvice: "🏆 You are in the top 2! Focus on improving content quality.",
		},
		{
			name:            "empty target group",
			targetSize:      0,
			targetQuality:   70,
			competitors:     []Competitor{competitorWith(1000, 60)},
			wantRank:        1,
			wantStrengths:   []string{"Your audience quality is 10.0 points above the competitor average"},
			wantWeaknesses:  []string{"Your group has no members yet"},
			wantFirstAdvice: "🎉 Your group leads its competitors! Keep it up.",
		},
		{
			name:            "empty competitors skip size",
			targetSize:      500,
			targetQuality:   70,
			competitors:     []Competitor{competitorWith(0, 60)},
			wantRank:        1,
			wantStrengths:   []string{"Your audience quality is 10.0 points above the competitor average"},
			wantWeaknesses:  []string{},
			wantFirstAdvice: "🎉 Your group leads its competitors! Keep it up.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rank(&model.Group{Name: "target", MembersCount: tt.targetSize},
				&model.AnalysisReport{AudienceQualityScore: tt.targetQuality}, tt.competitors)

			assert.Equal(t, tt.wantRank, r.Rank)
			assert.Equal(t, tt.wantStrengths, r.Strengths)
			assert.Equal(t, tt.wantWeaknesses, r.Weaknesses)
			require.NotEmpty(t, r.Recommendations)
			assert.Equal(t, tt.wantFirstAdvice, r.Recommendations[0])
		})
	}
}

type fakeFetcher struct {
	members map[string][]model.MemberProfile
	errs    map[string]error
	limits  map[string]int
	mu      sync.Mutex
}

func (f *fakeFetcher) GetGroup(context.Context, string) (*model.Group, error) {
	return nil, errors.New("not used")
}

func (f *fakeFetcher) GetMembers(ctx context.Context, groupID string, limit int, _ service.PageFunc) ([]model.MemberProfile, error) {
	f.mu.Lock()
	f.limits[groupID] = limit
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[groupID]; err != nil {
		return nil, err
	}
	return f.members[groupID], nil
}

func TestAnalyzeAll(t *testing.T) {
	fetcher := &fakeFetcher{
		members: map[string][]model.MemberProfile{
			"10": profiles.Mixed(),
			"20": profiles.Mixed(),
		},
		errs:   map[string]error{"30": errors.New("access denied")},
		limits: map[string]int{},
	}
	groups := []model.Group{
		{ID: 10, Name: "big", MembersCount: 50000},
		{ID: 20, Name: "small", MembersCount: 20},
		{ID: 30, Name: "closed", MembersCount: 300},
		{ID: 40, Name: "empty", MembersCount: 0},
		{ID: 50, Name: "silent", MembersCount: 10},
	}
	analyzer := audience.NewAnalyzer(audience.WithClock(audience.FixedClock(profiles.ReferenceTime)))

	got, err := AnalyzeAll(context.Background(), fetcher, analyzer, groups, nil)
	require.NoError(t, err)
	require.Len(t, got, len(groups))

	for i, c := range got {
		assert.Equal(t, groups[i].ID, c.ID, "order is preserved")
	}
	require.NotNil(t, got[0].Report)
	assert.Equal(t, 20, got[0].Report.TotalMembersAnalyzed)
	require.NotNil(t, got[1].Report)
	assert.Nil(t, got[2].Report, "fetch failure leaves the report empty")
	assert.Nil(t, got[3].Report)
	assert.Nil(t, got[4].Report, "no members returned")

	assert.Equal(t, map[string]int{"10": SampleSize, "20": 20, "30": SampleSize, "50": 10}, fetcher.limits)
}

func TestAnalyzeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{limits: map[string]int{}}
	groups := []model.Group{{ID: 10, Name: "big", MembersCount: 500}}

	got, err := AnalyzeAll(ctx, fetcher, audience.NewAnalyzer(), groups, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
