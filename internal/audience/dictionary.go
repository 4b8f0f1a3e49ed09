// Package audience aggregates VK group member profiles into an audience report.
package audience

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// OpenEnded is the upper bound of the last age group.
const OpenEnded = math.MaxInt

// Dictionary validation errors.
var (
	ErrNoCategories     = errors.New("dictionary has no categories")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidAgeGroups = errors.New("invalid age groups")
)

// Category is a named set of lowercase keyword substrings.
type Category struct {
	Name     string
	Keywords []string
}

// AgeGroup is the half-open interval [Min, Max).
type AgeGroup struct {
	Name string
	Min  int
	Max  int
}

// Contains reports whether age falls inside the group.
func (g AgeGroup) Contains(age int) bool {
	return age >= g.Min && age < g.Max
}

// DictionaryConfig describes the static tables of a Dictionary.
type DictionaryConfig struct {
	Categories []Category
	AgeGroups  []AgeGroup
	Capitals   []string
	// NotableCities is ordered; the first MillionCityCount entries are million-cities.
	NotableCities    []string
	MillionCityCount int
}

// Dictionary is the immutable lookup table used by the aggregators.
// It is safe for concurrent use.
type Dictionary struct {
	capitals      map[string]struct{}
	millionCities map[string]struct{}
	categories    []Category
	ageGroups     []AgeGroup
}

// NewDictionary validates cfg and builds a Dictionary from it.
func NewDictionary(cfg DictionaryConfig) (*Dictionary, error) {
	if len(cfg.Categories) == 0 {
		return nil, ErrNoCategories
	}

	seen := make(map[string]struct{}, len(cfg.Categories))
	categories := make([]Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidCategory)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidCategory, name)
		}
		seen[name] = struct{}{}

		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: %q has no keywords", ErrInvalidCategory, name)
		}
		categories = append(categories, Category{Name: name, Keywords: keywords})
	}

	if err := validateAgeGroups(cfg.AgeGroups); err != nil {
		return nil, err
	}

	d := &Dictionary{
		categories:    categories,
		ageGroups:     append([]AgeGroup(nil), cfg.AgeGroups...),
		capitals:      make(map[string]struct{}, len(cfg.Capitals)),
		millionCities: make(map[string]struct{}, cfg.MillionCityCount),
	}
	for _, c := range cfg.Capitals {
		d.capitals[normalizeCity(c)] = struct{}{}
	}
	for i, c := range cfg.NotableCities {
		if i >= cfg.MillionCityCount {
			break
		}
		d.millionCities[normalizeCity(c)] = struct{}{}
	}

	return d, nil
}

// validateAgeGroups requires contiguous, ordered groups covering [0, OpenEnded).
func validateAgeGroups(groups []AgeGroup) error {
	if len(groups) == 0 {
		return fmt.Errorf("%w: none defined", ErrInvalidAgeGroups)
	}
	if groups[0].Min != 0 {
		return fmt.Errorf("%w: first group must start at 0", ErrInvalidAgeGroups)
	}
	names := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		if g.Name == "" {
			return fmt.Errorf("%w: group %d has no name", ErrInvalidAgeGroups, i)
		}
		if _, dup := names[g.Name]; dup {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidAgeGroups, g.Name)
		}
		names[g.Name] = struct{}{}
		if g.Max <= g.Min {
			return fmt.Errorf("%w: %q is empty", ErrInvalidAgeGroups, g.Name)
		}
		if i > 0 && groups[i-1].Max != g.Min {
			return fmt.Errorf("%w: gap or overlap before %q", ErrInvalidAgeGroups, g.Name)
		}
	}
	if groups[len(groups)-1].Max != OpenEnded {
		return fmt.Errorf("%w: last group must be open-ended", ErrInvalidAgeGroups)
	}
	return nil
}

// Categorize returns the categories whose keywords occur in text, each at most once,
// in dictionary order.
func (d *Dictionary) Categorize(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	var found []string
	for _, c := range d.categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, c.Name)
				break
			}
		}
	}
	return found
}

// CategoryNames returns category names in dictionary order.
func (d *Dictionary) CategoryNames() []string {
	names := make([]string, len(d.categories))
	for i, c := range d.categories {
		names[i] = c.Name
	}
	return names
}

// AgeGroupFor returns the first group containing age.
func (d *Dictionary) AgeGroupFor(age int) (string, bool) {
	for _, g := range d.ageGroups {
		if g.Contains(age) {
			return g.Name, true
		}
	}
	return "", false
}

// AgeGroupNames returns the age group names in order.
func (d *Dictionary) AgeGroupNames() []string {
	names := make([]string, len(d.ageGroups))
	for i, g := range d.ageGroups {
		names[i] = g.Name
	}
	return names
}

// IsCapital reports whether city is on the capitals list.
func (d *Dictionary) IsCapital(city string) bool {
	_, ok := d.capitals[normalizeCity(city)]
	return ok
}

// IsMillionCity reports whether city is one of the million-cities.
func (d *Dictionary) IsMillionCity(city string) bool {
	_, ok := d.millionCities[normalizeCity(city)]
	return ok
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
