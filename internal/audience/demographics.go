package audience

import (
	"context"
	"time"

	"github.com/Veraticus/audience-scope/internal/model"
)

// Demographics computes the gender and age distributions of profiles.
// Every profile lands in exactly one gender bucket and in one age bucket or unknown.
func Demographics(ctx context.Context, profiles []model.MemberProfile, dict *Dictionary, now time.Time) (*model.GenderDistribution, *model.AgeDistribution, error) {
	var male, female, unknownSex int
	ageCounts := make(map[string]int, len(dict.ageGroups))
	var ageSum, resolved, unknownAge int

	for i := range profiles {
		if err := checkCanceled(ctx, i); err != nil {
			return nil, nil, err
		}
		p := &profiles[i]

		switch p.Sex {
		case model.SexMale:
			male++
		case model.SexFemale:
			female++
		default:
			unknownSex++
		}

		age, ok := profileAge(p, now)
		if !ok {
			unknownAge++
			continue
		}
		group, ok := dict.AgeGroupFor(age)
		if !ok {
			unknownAge++
			continue
		}
		ageCounts[group]++
		ageSum += age
		resolved++
	}

	total := len(profiles)
	gender := &model.GenderDistribution{
		Male:    model.Percent(male, total),
		Female:  model.Percent(female, total),
		Unknown: model.Percent(unknownSex, total),
	}

	ages := &model.AgeDistribution{
		Buckets:           make(map[string]float64, len(dict.ageGroups)),
		UnknownPercentage: model.Percent(unknownAge, total),
	}
	for _, g := range dict.ageGroups {
		ages.Buckets[g.Name] = model.Percent(ageCounts[g.Name], total)
	}
	if resolved > 0 {
		ages.AverageAge = model.Round1(float64(ageSum) / float64(resolved))
	}

	return gender, ages, nil
}

// profileAge resolves the age of a profile whose birth date carries a year.
func profileAge(p *model.MemberProfile, now time.Time) (int, bool) {
	if p.BirthDate == "" {
		return 0, false
	}
	bd, ok := model.ParseBirthDate(p.BirthDate)
	if !ok {
		return 0, false
	}
	return bd.AgeAt(now)
}
