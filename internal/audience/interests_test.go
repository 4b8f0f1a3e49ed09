package audience

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/testutil/profiles"
)

func TestInterests(t *testing.T) {
	tests := []struct {
		name     string
		batch    []model.MemberProfile
		want     []model.Share
		fillRate float64
		distinct int
	}{
		{
			name:     "fields matched independently",
			batch:    profiles.New().Interests("программирование").Activities("футбол").Repeat(1),
			want:     []model.Share{{Name: "sport", Percentage: 50}, {Name: "technology", Percentage: 50}},
			fillRate: 100,
			distinct: 2,
		},
		{
			name:     "same category in both fields counts twice",
			batch:    profiles.New().Interests("футбол").Activities("хоккей").Repeat(1),
			want:     []model.Share{{Name: "sport", Percentage: 100}},
			fillRate: 100,
			distinct: 1,
		},
		{
			name: "whitespace is filled in but matches nothing",
			batch: profiles.Concat(
				profiles.New().Interests("   ").Repeat(1),
				profiles.New().Activities("просто так").Repeat(1),
				profiles.New().Repeat(2),
			),
			want:     []model.Share{},
			fillRate: 50,
			distinct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interests(context.Background(), tt.batch, DefaultDictionary())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.PopularCategories)
			assert.InDelta(t, tt.fillRate, got.ProfileFillRate, 0.001)
			assert.Equal(t, tt.distinct, got.TotalCategoriesFound)
		})
	}
}

func TestInterestsTopTen(t *testing.T) {
	var batch []model.MemberProfile
	for _, c := range DefaultCategories() {
		batch = append(batch, profiles.New().Interests(c.Keywords[0]).Build())
	}

	got, err := Interests(context.Background(), batch, DefaultDictionary())
	require.NoError(t, err)
	assert.Len(t, got.PopularCategories, popularCategoriesLimit)
	assert.GreaterOrEqual(t, got.TotalCategoriesFound, len(DefaultCategories()))
}
