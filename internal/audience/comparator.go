package audience

import (
	"fmt"
	"math"

	"github.com/Veraticus/audience-scope/internal/model"
)

const (
	dominantGenderThreshold = 50.0
	similarQualityMaxDelta  = 10.0
)

// Compare measures how alike two audiences are. Only the gender and age
// dimensions feed the overall similarity.
func Compare(a, b *model.AnalysisReport) *model.ComparisonReport {
	genderSim := DistributionSimilarity(genderMap(a), genderMap(b))
	ageSim := DistributionSimilarity(ageMap(a), ageMap(b))

	var scoreA, scoreB float64
	if a != nil {
		scoreA = a.AudienceQualityScore
	}
	if b != nil {
		scoreB = b.AudienceQualityScore
	}

	return &model.ComparisonReport{
		SimilarityScore:       model.Round1((genderSim + ageSim) / 2),
		GenderSimilarity:      genderSim,
		AgeSimilarity:         ageSim,
		CommonCharacteristics: commonCharacteristics(a, b, scoreA, scoreB),
		Audience1Quality:      scoreA,
		Audience2Quality:      scoreB,
		QualityDifference:     model.Round1(math.Abs(scoreA - scoreB)),
	}
}

// DistributionSimilarity averages 100-|v1-v2| over the union of keys, treating
// a missing key as 0. It is 0 when either distribution is empty.
func DistributionSimilarity(d1, d2 map[string]float64) float64 {
	if len(d1) == 0 || len(d2) == 0 {
		return 0
	}

	union := make(map[string]float64, len(d1)+len(d2))
	for k := range d1 {
		union[k] = 0
	}
	for k := range d2 {
		union[k] = 0
	}
	keys := model.SortedKeys(union)

	var sum float64
	for _, k := range keys {
		sum += 100 - math.Abs(d1[k]-d2[k])
	}
	return model.Round1(sum / float64(len(keys)))
}

func commonCharacteristics(a, b *model.AnalysisReport, scoreA, scoreB float64) []string {
	traits := []string{}

	if a != nil && b != nil && a.Gender != nil && b.Gender != nil {
		switch {
		case a.Gender.Male > dominantGenderThreshold && b.Gender.Male > dominantGenderThreshold:
			traits = append(traits, "Both audiences are predominantly male")
		case a.Gender.Female > dominantGenderThreshold && b.Gender.Female > dominantGenderThreshold:
			traits = append(traits, "Both audiences are predominantly female")
		}
	}

	if a != nil && b != nil && a.AgeGroups != nil && b.AgeGroups != nil {
		mainA, _, okA := a.AgeGroups.Dominant()
		mainB, _, okB := b.AgeGroups.Dominant()
		if okA && okB && mainA == mainB {
			traits = append(traits, fmt.Sprintf("Same main age group: %s", mainA))
		}
	}

	switch {
	case math.Abs(scoreA-scoreB) < similarQualityMaxDelta:
		traits = append(traits, "Similar audience quality")
	case scoreA > scoreB+similarQualityMaxDelta:
		traits = append(traits, "The first audience is clearly ahead in quality")
	case scoreB > scoreA+similarQualityMaxDelta:
		traits = append(traits, "The second audience is clearly ahead in quality")
	}

	return traits
}

func genderMap(r *model.AnalysisReport) map[string]float64 {
	if r == nil || r.Gender == nil {
		return nil
	}
	return r.Gender.AsMap()
}

func ageMap(r *model.AnalysisReport) map[string]float64 {
	if r == nil || r.AgeGroups == nil {
		return nil
	}
	return r.AgeGroups.Buckets
}
