package competitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
)

const (
	// SampleSize is how many members of each competitor are analyzed.
	SampleSize = 200
	// TopicsShown is how many competitor topics the topic recommendation names.
	TopicsShown = 3

	lowQualityThreshold = 60
	largerFactor        = 1.5
	smallerFactor       = 0.7
	analyzeConcurrency  = 3
)

// Competitor is a similar group with the analysis of a member sample.
// Report is nil when the sample could not be fetched or the group is empty.
type Competitor struct {
	Report *model.AnalysisReport `json:"analysis,omitempty"`
	model.Group
}

// Ranking places the target group among its competitors.
type Ranking struct {
	TargetGroup          string       `json:"target_group"`
	Strengths            []string     `json:"strengths"`
	Weaknesses           []string     `json:"weaknesses"`
	Recommendations      []string     `json:"recommendations"`
	Competitors          []Competitor `json:"competitors"`
	TotalCompetitors     int          `json:"total_competitors"`
	CompetitorsAnalyzed  int          `json:"competitors_analyzed"`
	Rank                 int          `json:"rank,omitempty"`
	TargetQuality        float64      `json:"target_quality"`
	AvgCompetitorQuality float64      `json:"avg_competitor_quality"`
}

// ReportAnalyzer turns a member batch into a report.
type ReportAnalyzer interface {
	Analyze(ctx context.Context, profiles []model.MemberProfile) (*model.AnalysisReport, error)
}

// AnalyzeAll fetches a sample of each group's members and analyzes it. A group
// that fails is kept without a report; only cancellation is returned.
func AnalyzeAll(ctx context.Context, fetcher service.ProfileFetcher, analyzer ReportAnalyzer, groups []model.Group, logger *slog.Logger) ([]Competitor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]Competitor, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)
	for i := range groups {
		out[i].Group = groups[i]
		limit := min(SampleSize, groups[i].MembersCount)
		if limit <= 0 {
			continue
		}

		g.Go(func() error {
			group := &out[i].Group
			logger.Info("analyzing competitor", "name", group.Name, "sample", limit)

			members, err := fetcher.GetMembers(gctx, group.IDString(), limit, nil)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error("failed to fetch competitor members", "name", group.Name, "error", err)
				return nil
			}
			if len(members) == 0 {
				return nil
			}

			report, err := analyzer.Analyze(gctx, members)
			if err != nil {
				return fmt.Errorf("failed to analyze competitor %s: %w", group.Name, err)
			}
			out[i].Report = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rank compares the target's audience quality and size with its competitors.
// Competitors without a report count toward size but not toward quality; when
// none has a report the ranking carries no rank.
func Rank(target *model.Group, targetReport *model.AnalysisReport, competitors []Competitor) *Ranking {
	r := &Ranking{
		TargetGroup:      target.Name,
		Strengths:        []string{},
		Weaknesses:       []string{},
		Recommendations:  []string{},
		Competitors:      competitors,
		TotalCompetitors: len(competitors),
	}
	if r.Competitors == nil {
		r.Competitors = []Competitor{}
	}
	if len(competitors) == 0 {
		return r
	}

	var qualities []float64
	for _, c := range competitors {
		if c.Report != nil {
			qualities = append(qualities, c.Report.AudienceQualityScore)
		}
	}
	r.CompetitorsAnalyzed = len(qualities)
	if len(qualities) == 0 {
		return r
	}

	targetQuality := 0.0
	if targetReport != nil {
		targetQuality = targetReport.AudienceQualityScore
	}
	var sum float64
	r.Rank = 1
	for _, q := range qualities {
		sum += q
		if q > targetQuality {
			r.Rank++
		}
	}
	avg := sum / float64(len(qualities))
	r.TargetQuality = targetQuality
	r.AvgCompetitorQuality = model.Round1(avg)

	if targetQuality > avg {
		r.Strengths = append(r.Strengths,
			fmt.Sprintf("Your audience quality is %.1f points above the competitor average", targetQuality-avg))
	} else {
		r.Weaknesses = append(r.Weaknesses,
			fmt.Sprintf("Your audience quality is %.1f points below the competitor average", avg-targetQuality))
	}

	compareSize(r, target.MembersCount, competitors)

	switch {
	case r.Rank == 1:
		r.Recommendations = append(r.Recommendations, "🎉 Your group leads its competitors! Keep it up.")
	case r.Rank <= 3:
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("🏆 You are in the top %d! Focus on improving content quality.", r.Rank))
	default:
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("📈 You are ranked #%d. Study the market leaders and adopt their best practices.", r.Rank))
	}
	if targetQuality < lowQualityThreshold {
		r.Recommendations = append(r.Recommendations, "⚡ Work on audience quality through better content.")
	}
	if topics := competitorTopics(competitors); len(topics) > 0 {
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("🎯 Main competitor topics: %s", strings.Join(topics, ", ")))
	}

	return r
}

func compareSize(r *Ranking, targetSize int, competitors []Competitor) {
	var total int
	for _, c := range competitors {
		total += c.MembersCount
	}
	avg := float64(total) / float64(len(competitors))
	if avg <= 0 {
		return
	}

	size := float64(targetSize)
	switch {
	case size > avg*largerFactor:
		r.Strengths = append(r.Strengths,
			fmt.Sprintf("Your audience is %.1fx larger than the competitor average", size/avg))
	case size < avg*smallerFactor:
		if size == 0 {
			r.Weaknesses = append(r.Weaknesses, "Your group has no members yet")
			return
		}
		r.Weaknesses = append(r.Weaknesses,
			fmt.Sprintf("Your audience is %.1fx smaller than the competitor average", avg/size))
	}
}

// competitorTopics returns up to TopicsShown distinct topics in order of first
// appearance across competitors.
func competitorTopics(competitors []Competitor) []string {
	seen := make(map[string]struct{})
	var topics []string
	for _, c := range competitors {
		for _, topic := range c.Categories {
			if _, dup := seen[topic]; dup {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
			if len(topics) == TopicsShown {
				return topics
			}
		}
	}
	return topics
}
