package audience

import (
	"context"

	"github.com/Veraticus/audience-scope/internal/model"
)

const popularCategoriesLimit = 10

// Interests categorizes the interests and activities fields of every profile.
// The two fields are matched independently, so one profile can add up to two hits
// to the same category. Shares are relative to total category hits.
func Interests(ctx context.Context, profiles []model.MemberProfile, dict *Dictionary) (*model.Interests, error) {
	hits := make(map[string]int)
	filled := 0

	for i := range profiles {
		if err := checkCanceled(ctx, i); err != nil {
			return nil, err
		}
		p := &profiles[i]

		if p.Interests != "" || p.Activities != "" {
			filled++
		}
		for _, c := range dict.Categorize(p.Interests) {
			hits[c]++
		}
		for _, c := range dict.Categorize(p.Activities) {
			hits[c]++
		}
	}

	totalHits := 0
	for _, n := range hits {
		totalHits += n
	}

	return &model.Interests{
		PopularCategories:    topShares(hits, popularCategoriesLimit, totalHits, nil),
		ProfileFillRate:      model.Percent(filled, len(profiles)),
		TotalCategoriesFound: len(hits),
	}, nil
}
