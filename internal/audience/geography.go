package audience

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/audience-scope/internal/model"
)

// City tier names.
const (
	TierCapitals      = "capitals"
	TierMillionCities = "million-cities"
	TierLarge         = "large"
	TierMedium        = "medium"
	TierSmall         = "small"
)

// CityTiers lists the tiers in priority order.
var CityTiers = []string{TierCapitals, TierMillionCities, TierLarge, TierMedium, TierSmall}

// Occurrence thresholds are raw counts within the analyzed sample.
const (
	largeCityThreshold  = 100
	mediumCityThreshold = 30
	topCitiesLimit      = 10
	topCountriesLimit   = 5
)

// Geography counts cities and countries and classifies cities into tiers.
func Geography(ctx context.Context, profiles []model.MemberProfile, dict *Dictionary) (*model.Geography, error) {
	cities := make(map[string]int)
	countries := make(map[string]int)
	unknownLocation := 0

	for i := range profiles {
		if err := checkCanceled(ctx, i); err != nil {
			return nil, err
		}
		p := &profiles[i]

		if city := p.CityName(); city != "" {
			cities[strings.ToLower(city)]++
		} else {
			unknownLocation++
		}
		if country := p.CountryName(); country != "" {
			countries[country]++
		}
	}

	total := len(profiles)
	title := cases.Title(language.Russian)

	tierCounts := make(map[string]int, len(CityTiers))
	for city, count := range cities {
		tierCounts[dict.CityTier(city, count)] += count
	}
	tiers := make(map[string]float64, len(CityTiers))
	for _, tier := range CityTiers {
		tiers[tier] = model.Percent(tierCounts[tier], total)
	}

	return &model.Geography{
		TopCities:                 topShares(cities, topCitiesLimit, total, title.String),
		Countries:                 topShares(countries, topCountriesLimit, total, nil),
		CityTypes:                 tiers,
		UnknownLocationPercentage: model.Percent(unknownLocation, total),
	}, nil
}

// CityTier classifies a city by the first matching rule: capitals, million-cities,
// then sample occurrence thresholds.
func (d *Dictionary) CityTier(city string, occurrences int) string {
	switch {
	case d.IsCapital(city):
		return TierCapitals
	case d.IsMillionCity(city):
		return TierMillionCities
	case occurrences >= largeCityThreshold:
		return TierLarge
	case occurrences >= mediumCityThreshold:
		return TierMedium
	default:
		return TierSmall
	}
}

// topShares returns the n most frequent keys as percentages of total.
// Equal counts are ordered by name.
func topShares(counts map[string]int, n, total int, display func(string) string) []model.Share {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}

	shares := make([]model.Share, 0, len(keys))
	for _, k := range keys {
		name := k
		if display != nil {
			name = display(k)
		}
		shares = append(shares, model.Share{Name: name, Percentage: model.Percent(counts[k], total)})
	}
	return shares
}
