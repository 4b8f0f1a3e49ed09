package audience

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/audience-scope/internal/model"
)

// cancelCheckInterval is how many profiles an aggregator processes between context checks.
const cancelCheckInterval = 1024

// Analyzer builds audience reports from member batches.
// It holds no mutable state and may be shared between goroutines.
type Analyzer struct {
	dict   *Dictionary
	clock  Clock
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDictionary replaces the default keyword and city tables.
func WithDictionary(d *Dictionary) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.dict = d
		}
	}
}

// WithClock sets the source of "now" for ages and last-seen recency.
func WithClock(c Clock) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an analyzer with the default dictionary and the real clock.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		dict:   DefaultDictionary(),
		clock:  RealClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dictionary returns the dictionary in use.
func (a *Analyzer) Dictionary() *Dictionary {
	return a.dict
}

// Analyze aggregates profiles into a report. An empty batch yields an empty report.
// The only error is the context's, when the caller abandons the analysis.
func (a *Analyzer) Analyze(ctx context.Context, profiles []model.MemberProfile) (*model.AnalysisReport, error) {
	if len(profiles) == 0 {
		return &model.AnalysisReport{}, nil
	}

	started := time.Now()
	now := a.clock.Now()
	a.logger.Info("Starting audience analysis", "members", len(profiles))

	report := &model.AnalysisReport{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		gender, ages, err := Demographics(gctx, profiles, a.dict, now)
		if err != nil {
			return err
		}
		report.Gender, report.AgeGroups = gender, ages
		return nil
	})
	g.Go(func() error {
		geo, err := Geography(gctx, profiles, a.dict)
		if err != nil {
			return err
		}
		report.Geography = geo
		return nil
	})
	g.Go(func() error {
		interests, err := Interests(gctx, profiles, a.dict)
		if err != nil {
			return err
		}
		report.Interests = interests
		return nil
	})
	g.Go(func() error {
		activity, err := Activity(gctx, profiles, now)
		if err != nil {
			return err
		}
		report.SocialActivity = activity
		return nil
	})
	g.Go(func() error {
		completeness, err := Completeness(gctx, profiles)
		if err != nil {
			return err
		}
		report.ProfileCompleteness = completeness
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Warn("Audience analysis abandoned", "error", err)
		return nil, err
	}

	report.TotalMembersAnalyzed = len(profiles)
	report.AudienceQualityScore = Score(report)
	report.QualityInterpretation = Interpret(report.AudienceQualityScore)
	report.Recommendations = Recommend(report)

	a.logger.Info("Audience analysis complete",
		"members", len(profiles),
		"quality_score", report.AudienceQualityScore,
		"duration", time.Since(started))

	return report, nil
}

// checkCanceled polls ctx every cancelCheckInterval iterations.
func checkCanceled(ctx context.Context, i int) error {
	if i%cancelCheckInterval != 0 {
		return nil
	}
	return ctx.Err()
}
