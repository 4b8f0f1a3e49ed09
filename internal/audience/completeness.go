package audience

import (
	"context"

	"github.com/Veraticus/audience-scope/internal/model"
)

// completenessField is one weighted entry of the profile checklist.
type completenessField struct {
	present func(p *model.MemberProfile) bool
	name    string
	weight  int
}

var completenessChecklist = []completenessField{
	{name: "sex", weight: 10, present: func(p *model.MemberProfile) bool { return p.Sex.Known() }},
	{name: "bdate", weight: 15, present: func(p *model.MemberProfile) bool { return p.BirthDate != "" }},
	{name: "city", weight: 15, present: func(p *model.MemberProfile) bool { return p.CityName() != "" }},
	{name: "country", weight: 10, present: func(p *model.MemberProfile) bool { return p.CountryName() != "" }},
	{name: "interests", weight: 15, present: func(p *model.MemberProfile) bool { return p.Interests != "" }},
	{name: "activities", weight: 15, present: func(p *model.MemberProfile) bool { return p.Activities != "" }},
	{name: "last_seen", weight: 20, present: func(p *model.MemberProfile) bool { return p.HasLastSeen() }},
}

const (
	highCompletenessThreshold = 70.0
	lowCompletenessThreshold  = 30.0
)

// ProfileScore returns the weighted completeness of a single profile in percent.
func ProfileScore(p *model.MemberProfile) float64 {
	score, possible := 0, 0
	for _, f := range completenessChecklist {
		possible += f.weight
		if f.present(p) {
			score += f.weight
		}
	}
	return float64(score) / float64(possible) * 100
}

// Completeness averages per-profile completeness and counts high and low outliers.
func Completeness(ctx context.Context, profiles []model.MemberProfile) (*model.ProfileCompleteness, error) {
	if len(profiles) == 0 {
		return &model.ProfileCompleteness{}, nil
	}

	var sum float64
	high, low := 0, 0
	for i := range profiles {
		if err := checkCanceled(ctx, i); err != nil {
			return nil, err
		}
		score := ProfileScore(&profiles[i])
		sum += score
		if score > highCompletenessThreshold {
			high++
		}
		if score < lowCompletenessThreshold {
			low++
		}
	}

	total := len(profiles)
	return &model.ProfileCompleteness{
		AverageCompleteness:        model.Round1(sum / float64(total)),
		HighCompletenessPercentage: model.Percent(high, total),
		LowCompletenessPercentage:  model.Percent(low, total),
	}, nil
}
