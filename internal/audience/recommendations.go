package audience

import (
	"fmt"

	"github.com/Veraticus/audience-scope/internal/model"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 10

const (
	genderSkewThreshold       = 70.0
	dominantAgeThreshold      = 40.0
	dominantTierThreshold     = 50.0
	highActivityThreshold     = 70.0
	popularCategoryThreshold  = 20.0
	popularCategoriesChecked  = 3
	wellFilledProfilesMinimum = 60.0
)

var ageRecommendations = map[string]string{
	AgeUnder18: "🧒 Audience is mostly under 18 - keep content age-appropriate and mind ad restrictions",
	Age18to24:  "🎓 Young audience aged 18-24 - trending content and social formats work best",
	Age25to34:  "🚀 Audience aged 25-34 - focus on career growth, family and practical value",
	Age35to44:  "💼 Audience aged 35-44 - emphasize stability and quality",
	Age45to54:  "🏡 Audience aged 45-54 - highlight reliability, health and home",
	Age55Plus:  "🧓 Audience aged 55+ - use clear wording and larger visuals",
}

var tierRecommendations = map[string]string{
	TierCapitals:      "🏙️ Capital residents dominate - premium offers are viable",
	TierMillionCities: "🌆 Mostly big-city residents - local events and fast delivery resonate",
	TierLarge:         "🏢 Concentrated in a few large cities - consider geo-targeted campaigns",
	TierMedium:        "🏘️ Mostly mid-sized towns - regional offers work well",
	TierSmall:         "🏡 Many small-town residents - availability and delivery matter most",
}

var generalTips = []string{
	"💡 Use lookalike audiences to reach similar users",
	"📊 Test different ad formats - images, video, carousels",
	"⏳ Publish during peak hours - 9-11 AM and 7-10 PM",
}

// Recommend evaluates the targeting rules against a merged report in priority
// order and appends the general tips. The result never exceeds MaxRecommendations;
// the lowest-priority entries are dropped first.
func Recommend(r *model.AnalysisReport) []string {
	var recs []string

	if g := r.Gender; g != nil {
		if g.Male > genderSkewThreshold {
			recs = append(recs, "✅ Audience is predominantly male - use male-oriented themes in ads")
		} else if g.Female > genderSkewThreshold {
			recs = append(recs, "✅ Audience is predominantly female - focus on women's interests")
		}
	}

	if a := r.AgeGroups; a != nil {
		if name, pct, ok := a.Dominant(); ok && pct > dominantAgeThreshold {
			recs = append(recs, ageRecommendation(name, pct))
		}
	}

	if geo := r.Geography; geo != nil {
		if tier, pct, ok := model.Dominant(geo.CityTypes); ok && pct > dominantTierThreshold {
			if msg, known := tierRecommendations[tier]; known {
				recs = append(recs, msg)
			}
		}
	}

	if s := r.SocialActivity; s != nil {
		if s.ActiveUsersPercentage > highActivityThreshold {
			recs = append(recs, "📱 Highly active audience - frequent posts and interactive formats fit")
		} else {
			recs = append(recs, "⏰ Audience is not very active - post less often but with higher quality")
		}
	}

	if in := r.Interests; in != nil {
		for i, c := range in.PopularCategories {
			if i >= popularCategoriesChecked {
				break
			}
			if c.Percentage > popularCategoryThreshold {
				recs = append(recs, fmt.Sprintf("🎯 Popular topic: %s - use it in your content", c.Name))
			}
		}
	}

	if c := r.ProfileCompleteness; c != nil && c.HighCompletenessPercentage > wellFilledProfilesMinimum {
		recs = append(recs, "📋 Profiles are well filled in - detailed targeting is possible")
	}

	recs = append(recs, generalTips...)
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func ageRecommendation(group string, pct float64) string {
	if msg, ok := ageRecommendations[group]; ok {
		return msg
	}
	return fmt.Sprintf("👥 Dominant age group %s (%.1f%%) - tailor content to it", group, pct)
}
