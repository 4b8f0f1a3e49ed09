package audience

import (
	"math"

	"github.com/Veraticus/audience-scope/internal/model"
)

// Tier is the verbal grade of a quality score.
type Tier string

// Quality tiers from best to worst.
const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierAverage   Tier = "average"
	TierWeak      Tier = "weak"
)

var tierDescriptions = map[Tier]string{
	TierExcellent: "Excellent audience! High engagement and quality",
	TierGood:      "Good audience. There is room to grow",
	TierAverage:   "Average audience. Work on engagement is recommended",
	TierWeak:      "Weak audience. An improvement strategy is needed",
}

const (
	baseScore                = 50.0
	completenessWeight       = 20.0
	activityWeight           = 20.0
	diversityBonus           = 10.0
	diversityMinCategories   = 5
	genderBalanceBonus       = 10.0
	genderBalanceMaxSkewDiff = 20.0
)

// Score computes the composite 0-100 audience quality of a merged report.
func Score(r *model.AnalysisReport) float64 {
	score := baseScore

	if r.ProfileCompleteness != nil {
		score += r.ProfileCompleteness.AverageCompleteness / 100 * completenessWeight
	}
	if r.SocialActivity != nil {
		score += r.SocialActivity.ActiveUsersPercentage / 100 * activityWeight
	}
	if r.Interests != nil && r.Interests.TotalCategoriesFound > diversityMinCategories {
		score += diversityBonus
	}
	if r.Gender != nil && math.Abs(r.Gender.Male-r.Gender.Female) < genderBalanceMaxSkewDiff {
		score += genderBalanceBonus
	}

	return model.Round1(math.Min(100, math.Max(0, score)))
}

// TierFor maps a score to its tier.
func TierFor(score float64) Tier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierAverage
	default:
		return TierWeak
	}
}

// Interpret returns the descriptive sentence for a score.
func Interpret(score float64) string {
	return tierDescriptions[TierFor(score)]
}
