package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Share is a named percentage inside an ordered top-N list.
type Share struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// GenderDistribution is the share of each sex code, summing to 100.
type GenderDistribution struct {
	Male    float64 `json:"male"`
	Female  float64 `json:"female"`
	Unknown float64 `json:"unknown"`
}

// AsMap returns the distribution keyed by label.
func (g GenderDistribution) AsMap() map[string]float64 {
	return map[string]float64{
		"male":    g.Male,
		"female":  g.Female,
		"unknown": g.Unknown,
	}
}

// AgeDistribution holds per-bucket shares of the whole population plus summary values.
// It marshals flat: every bucket is a top-level key next to average_age and
// unknown_percentage.
type AgeDistribution struct {
	Buckets           map[string]float64
	AverageAge        float64
	UnknownPercentage float64
}

const (
	ageKeyAverage = "average_age"
	ageKeyUnknown = "unknown_percentage"
)

// MarshalJSON flattens the buckets.
func (a AgeDistribution) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, len(a.Buckets)+2)
	for name, pct := range a.Buckets {
		out[name] = pct
	}
	out[ageKeyAverage] = a.AverageAge
	out[ageKeyUnknown] = a.UnknownPercentage
	return json.Marshal(out)
}

// UnmarshalJSON restores the flat representation.
func (a *AgeDistribution) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode age groups: %w", err)
	}
	a.Buckets = make(map[string]float64, len(raw))
	for key, value := range raw {
		switch key {
		case ageKeyAverage:
			a.AverageAge = value
		case ageKeyUnknown:
			a.UnknownPercentage = value
		default:
			a.Buckets[key] = value
		}
	}
	return nil
}

// Dominant returns the bucket with the largest share. Ties go to the
// lexically smaller name so the result is stable.
func (a AgeDistribution) Dominant() (string, float64, bool) {
	return Dominant(a.Buckets)
}

// Geography summarizes member locations.
type Geography struct {
	CityTypes                 map[string]float64 `json:"city_types"`
	TopCities                 []Share            `json:"top_cities"`
	Countries                 []Share            `json:"countries"`
	UnknownLocationPercentage float64            `json:"unknown_location_percentage"`
}

// Interests summarizes categorized free-text interests.
type Interests struct {
	PopularCategories    []Share `json:"popular_categories"`
	ProfileFillRate      float64 `json:"profile_fill_rate"`
	TotalCategoriesFound int     `json:"total_categories_found"`
}

// SocialActivity summarizes last-seen recency.
type SocialActivity struct {
	LastSeenDistribution  map[string]float64 `json:"last_seen_distribution"`
	ActiveUsersPercentage float64            `json:"active_users_percentage"`
}

// ProfileCompleteness summarizes weighted field fill-in.
type ProfileCompleteness struct {
	AverageCompleteness        float64 `json:"average_completeness"`
	HighCompletenessPercentage float64 `json:"high_completeness_percentage"`
	LowCompletenessPercentage  float64 `json:"low_completeness_percentage"`
}

// AnalysisReport is the aggregated view of one member batch.
// A report built from an empty batch has every section unset.
type AnalysisReport struct {
	Gender                *GenderDistribution  `json:"gender,omitempty"`
	AgeGroups             *AgeDistribution     `json:"age_groups,omitempty"`
	Geography             *Geography           `json:"geography,omitempty"`
	Interests             *Interests           `json:"interests,omitempty"`
	SocialActivity        *SocialActivity      `json:"social_activity,omitempty"`
	ProfileCompleteness   *ProfileCompleteness `json:"profile_completeness,omitempty"`
	QualityInterpretation string               `json:"quality_interpretation,omitempty"`
	Recommendations       []string             `json:"recommendations,omitempty"`
	AudienceQualityScore  float64              `json:"audience_quality_score,omitempty"`
	TotalMembersAnalyzed  int                  `json:"total_members_analyzed,omitempty"`
}

// IsEmpty reports whether the report carries no sections.
func (r *AnalysisReport) IsEmpty() bool {
	return r == nil || r.TotalMembersAnalyzed == 0
}

// ComparisonReport is the similarity between two analysis reports.
type ComparisonReport struct {
	CommonCharacteristics []string `json:"common_characteristics"`
	SimilarityScore       float64  `json:"similarity_score"`
	GenderSimilarity      float64  `json:"gender_similarity"`
	AgeSimilarity         float64  `json:"age_similarity"`
	Audience1Quality      float64  `json:"audience1_quality"`
	Audience2Quality      float64  `json:"audience2_quality"`
	QualityDifference     float64  `json:"quality_difference"`
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent returns part/total*100 rounded to one decimal, or 0 for an empty total.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// SortedKeys returns map keys in ascending order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dominant returns the key with the largest value, ties broken by name.
func Dominant(m map[string]float64) (string, float64, bool) {
	if len(m) == 0 {
		return "", 0, false
	}
	var bestName string
	bestValue := math.Inf(-1)
	for _, name := range SortedKeys(m) {
		if m[name] > bestValue {
			bestName, bestValue = name, m[name]
		}
	}
	return bestName, bestValue, true
}
