package competitor

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
)

// Finder defaults.
const (
	DefaultMinSimilarity   = 0.3
	DefaultMaxCompetitors  = 10
	DefaultResultsPerQuery = 15
)

// Finder searches for groups similar to a target group.
type Finder struct {
	searcher        service.GroupSearcher
	categorizer     *Categorizer
	logger          *slog.Logger
	minSimilarity   float64
	maxCompetitors  int
	resultsPerQuery int
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithCategorizer replaces the default topic table.
func WithCategorizer(c *Categorizer) FinderOption {
	return func(f *Finder) {
		if c != nil {
			f.categorizer = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FinderOption {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMinSimilarity sets the Jaccard threshold a candidate must reach.
func WithMinSimilarity(threshold float64) FinderOption {
	return func(f *Finder) {
		f.minSimilarity = threshold
	}
}

// WithMaxCompetitors caps the number of returned groups.
func WithMaxCompetitors(n int) FinderOption {
	return func(f *Finder) {
		if n > 0 {
			f.maxCompetitors = n
		}
	}
}

// NewFinder creates a finder backed by searcher.
func NewFinder(searcher service.GroupSearcher, opts ...FinderOption) *Finder {
	f := &Finder{
		searcher:        searcher,
		categorizer:     DefaultCategorizer(),
		logger:          slog.Default(),
		minSimilarity:   DefaultMinSimilarity,
		maxCompetitors:  DefaultMaxCompetitors,
		resultsPerQuery: DefaultResultsPerQuery,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Categorizer returns the topic table in use.
func (f *Finder) Categorizer() *Categorizer {
	return f.categorizer
}

// FindSimilar searches by the target's name, its top three keywords and its
// first two topics, and returns the open groups whose keyword similarity to the
// target reaches the threshold, most similar first. A failed query is logged
// and skipped; only cancellation aborts the search.
func (f *Finder) FindSimilar(ctx context.Context, target *model.Group) ([]model.Group, error) {
	text := target.Name + " " + target.Description
	keywords := ExtractKeywords(text)
	if len(keywords) == 0 {
		f.logger.Warn("no keywords extracted, skipping competitor search", "group", target.Name)
		return nil, nil
	}

	queries := f.searchQueries(target, keywords)
	f.logger.Info("searching for similar groups", "group", target.Name, "queries", len(queries))

	seen := map[int64]struct{}{target.ID: {}}
	var found []model.Group
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		groups, err := f.searcher.SearchGroups(ctx, query, f.resultsPerQuery)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Error("group search failed", "query", query, "error", err)
			continue
		}

		for _, g := range groups {
			if _, dup := seen[g.ID]; dup {
				continue
			}

			score := Similarity(text, g.Name+" "+g.Description)
			if score < f.minSimilarity {
				continue
			}
			seen[g.ID] = struct{}{}
			g.Similarity = score
			g.Categories = f.categorizer.Categorize(g.Name, g.Description)
			found = append(found, g)
			f.logger.Debug("found similar group", "name", g.Name, "similarity", score)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Similarity > found[j].Similarity
	})
	if len(found) > f.maxCompetitors {
		found = found[:f.maxCompetitors]
	}

	f.logger.Info("similar groups found", "group", target.Name, "count", len(found))
	return found, nil
}

func (f *Finder) searchQueries(target *model.Group, keywords []string) []string {
	candidates := []string{target.Name}
	candidates = append(candidates, keywords[:min(3, len(keywords))]...)

	categories := f.categorizer.Categorize(target.Name, target.Description)
	for _, c := range categories[:min(2, len(categories))] {
		candidates = append(candidates, f.categorizer.Query(c))
	}

	seen := make(map[string]struct{}, len(candidates))
	queries := make([]string, 0, len(candidates))
	for _, q := range candidates {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		queries = append(queries, q)
	}
	return queries
}
