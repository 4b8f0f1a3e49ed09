// Package report renders analysis results for the terminal and as JSON.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/cli"
	"github.com/Veraticus/audience-scope/internal/competitor"
	"github.com/Veraticus/audience-scope/internal/model"
)

const (
	topCitiesShown      = 5
	competitorsShown    = 5
	descriptionLimit    = 100
	competitorTopicsMax = 3
	timeLayout          = "2006-01-02 15:04"
)

var genderLabels = []struct{ key, label string }{
	{"male", "👨 Male"},
	{"female", "👩 Female"},
	{"unknown", "❓ Not specified"},
}

var lastSeenLabels = map[string]string{
	audience.SeenLessThanDay: "Today",
	audience.Seen1To7Days:    "This week",
	audience.Seen1To4Weeks:   "This month",
	audience.Seen1To3Months:  "1-3 months ago",
	audience.SeenOver3Months: "Over 3 months ago",
	audience.SeenNever:       "Never",
}

var competitorTips = []string{
	"Study the content of the top 3 competitors",
	"Analyze their activity and engagement",
	"Define your unique advantages",
	"Build a strategy that sets you apart from competitors",
}

// Formatter renders reports as styled terminal text.
type Formatter struct {
	styles   *Styles
	printer  *message.Printer
	barWidth int
}

// NewFormatter creates a formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{
		styles:   NewStyles(),
		printer:  message.NewPrinter(language.English),
		barWidth: DefaultBarWidth,
	}
}

// FormatAnalysis renders one group's audience report.
func (f *Formatter) FormatAnalysis(group *model.Group, r *model.AnalysisReport) string {
	sections := []string{f.formatGroupHeader(group, r)}

	if r.IsEmpty() {
		sections = append(sections, cli.FormatWarning("No members to analyze"))
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, f.formatQuality(r.AudienceQualityScore, r.QualityInterpretation))

	if r.Gender != nil {
		sections = append(sections, f.formatGender(r.Gender))
	}
	if r.AgeGroups != nil {
		sections = append(sections, f.formatAges(r.AgeGroups))
	}
	if r.Geography != nil {
		sections = append(sections, f.formatGeography(r.Geography))
	}
	if r.Interests != nil {
		sections = append(sections, f.formatInterests(r.Interests))
	}
	if r.SocialActivity != nil {
		sections = append(sections, f.formatActivity(r.SocialActivity))
	}
	if r.ProfileCompleteness != nil {
		sections = append(sections, f.formatCompleteness(r.ProfileCompleteness))
	}
	if len(r.Recommendations) > 0 {
		sections = append(sections, f.formatList(cli.IdeaIcon+" Recommendations", r.Recommendations))
	}

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatGroupHeader(group *model.Group, r *model.AnalysisReport) string {
	lines := []string{f.styles.Title.UnsetMargins().Render(cli.ChartIcon + " Audience report: " + group.Name)}

	var info []string
	if group.ID != 0 || group.ScreenName != "" {
		info = append(info, group.Link())
	}
	if group.MembersCount > 0 {
		info = append(info, f.printer.Sprintf("%d members", group.MembersCount))
	}
	if len(info) > 0 {
		lines = append(lines, f.styles.Subtitle.Render(strings.Join(info, " · ")))
	}

	if !r.IsEmpty() {
		analyzed := f.printer.Sprintf("Analyzed %d members", r.TotalMembersAnalyzed)
		if group.MembersCount > 0 {
			analyzed += fmt.Sprintf(" (%d%%)", min(100, r.TotalMembersAnalyzed*100/group.MembersCount))
		}
		lines = append(lines, f.styles.Subtle.Render(analyzed))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatQuality(score float64, interpretation string) string {
	style := f.styles.ForTier(audience.TierFor(score))
	title := f.styles.Score.Render(fmt.Sprintf("Audience quality: %.1f/100", score))
	bar := f.styles.RenderBar(score, f.barWidth*3/2)
	return strings.Join([]string{title, bar, style.Render(interpretation)}, "\n")
}

func (f *Formatter) formatGender(g *model.GenderDistribution) string {
	values := g.AsMap()
	lines := []string{f.styles.Section.Render(cli.PeopleIcon + " Gender")}
	for _, gl := range genderLabels {
		if gl.key == "unknown" && values[gl.key] == 0 {
			continue
		}
		lines = append(lines, f.row(gl.label, values[gl.key]))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatAges(a *model.AgeDistribution) string {
	lines := []string{f.styles.Section.Render("🎂 Age")}
	for _, name := range ageOrder(a.Buckets) {
		lines = append(lines, f.row(name, a.Buckets[name]))
	}
	lines = append(lines, f.row("Unknown", a.UnknownPercentage))
	if a.AverageAge > 0 {
		lines = append(lines, f.styles.Subtle.Render(fmt.Sprintf("Average age: %.1f", a.AverageAge)))
	}
	return strings.Join(lines, "\n")
}

// ageOrder lists the default age groups first, then any others by name.
func ageOrder(buckets map[string]float64) []string {
	order := make([]string, 0, len(buckets))
	known := make(map[string]struct{})
	for _, g := range audience.DefaultAgeGroups() {
		known[g.Name] = struct{}{}
		if _, ok := buckets[g.Name]; ok {
			order = append(order, g.Name)
		}
	}
	for _, name := range model.SortedKeys(buckets) {
		if _, ok := known[name]; !ok {
			order = append(order, name)
		}
	}
	return order
}

func (f *Formatter) formatGeography(g *model.Geography) string {
	lines := []string{f.styles.Section.Render("🌍 Geography")}

	if len(g.TopCities) > 0 {
		lines = append(lines, f.styles.Subtitle.Render("Top cities:"))
		for i, city := range g.TopCities[:min(topCitiesShown, len(g.TopCities))] {
			lines = append(lines, f.row(fmt.Sprintf("%d. %s", i+1, city.Name), city.Percentage))
		}
	}
	if len(g.Countries) > 0 {
		lines = append(lines, f.styles.Subtitle.Render("Countries:"))
		for _, country := range g.Countries {
			lines = append(lines, f.row(country.Name, country.Percentage))
		}
	}

	lines = append(lines, f.styles.Subtitle.Render("City types:"))
	for _, tier := range audience.CityTiers {
		if pct, ok := g.CityTypes[tier]; ok {
			lines = append(lines, f.row(tier, pct))
		}
	}
	lines = append(lines, f.row("Unknown location", g.UnknownLocationPercentage))
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatInterests(in *model.Interests) string {
	lines := []string{f.styles.Section.Render(cli.TargetIcon + " Interests")}
	for _, c := range in.PopularCategories {
		lines = append(lines, f.row(c.Name, c.Percentage))
	}
	if len(in.PopularCategories) == 0 {
		lines = append(lines, f.styles.Subtle.Render("No recognizable interests"))
	}
	lines = append(lines, f.styles.Subtle.Render(fmt.Sprintf(
		"Profiles with interests: %.1f%% · categories found: %d", in.ProfileFillRate, in.TotalCategoriesFound)))
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatActivity(a *model.SocialActivity) string {
	lines := []string{f.styles.Section.Render("⏱️ Last seen")}
	for _, bucket := range audience.LastSeenBuckets {
		if pct, ok := a.LastSeenDistribution[bucket]; ok {
			lines = append(lines, f.row(lastSeenLabels[bucket], pct))
		}
	}
	lines = append(lines, f.styles.Subtle.Render(fmt.Sprintf("Active within a week: %.1f%%", a.ActiveUsersPercentage)))
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatCompleteness(c *model.ProfileCompleteness) string {
	return strings.Join([]string{
		f.styles.Section.Render("📝 Profile completeness"),
		f.row("Average", c.AverageCompleteness),
		f.row("Well filled (≥70%)", c.HighCompletenessPercentage),
		f.row("Sparse (<30%)", c.LowCompletenessPercentage),
	}, "\n")
}

// FormatComparison renders the similarity of two audiences.
func (f *Formatter) FormatComparison(nameA, nameB string, cmp *model.ComparisonReport) string {
	lines := []string{
		f.styles.Title.UnsetMargins().Render(cli.ChartIcon + " Audience comparison"),
		fmt.Sprintf("1️⃣  %s %s", nameA, f.styles.Subtle.Render(fmt.Sprintf("(quality %.1f)", cmp.Audience1Quality))),
		fmt.Sprintf("2️⃣  %s %s", nameB, f.styles.Subtle.Render(fmt.Sprintf("(quality %.1f)", cmp.Audience2Quality))),
		"",
		f.styles.Score.Render(fmt.Sprintf("Audience similarity: %.1f%%", cmp.SimilarityScore)),
		f.row("Gender", cmp.GenderSimilarity),
		f.row("Age", cmp.AgeSimilarity),
		f.styles.Subtle.Render(fmt.Sprintf("Quality difference: %.1f", cmp.QualityDifference)),
		"",
	}

	if len(cmp.CommonCharacteristics) == 0 {
		lines = append(lines, cli.FormatWarning("No significant common characteristics found"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, f.styles.Section.Render("Common characteristics"))
	for _, c := range cmp.CommonCharacteristics {
		lines = append(lines, "• "+c)
	}
	return strings.Join(lines, "\n")
}

// FormatCompetitors renders the competitors of target and, when available,
// the target's ranking among them.
func (f *Formatter) FormatCompetitors(target *model.Group, ranking *competitor.Ranking) string {
	header := []string{
		f.styles.Title.UnsetMargins().Render(cli.ScopeIcon + " Competitor analysis: " + target.Name),
		f.printer.Sprintf("Members: %d", target.MembersCount),
		fmt.Sprintf("Competitors found: %d", ranking.TotalCompetitors),
	}
	sections := []string{strings.Join(header, "\n")}

	if len(ranking.Competitors) == 0 {
		sections = append(sections, cli.FormatWarning("No similar open groups found"))
		return strings.Join(sections, "\n\n")
	}

	shown := ranking.Competitors[:min(competitorsShown, len(ranking.Competitors))]
	lines := []string{f.styles.Section.Render(fmt.Sprintf("Top %d competitors", len(shown)))}
	for i, c := range shown {
		lines = append(lines, f.printer.Sprintf("%d. %s (%d members) - similarity %.2f", i+1, c.Name, c.MembersCount, c.Similarity))
		if c.Description != "" {
			lines = append(lines, "   "+f.styles.Subtle.Render(truncate(c.Description, descriptionLimit)))
		}
		if len(c.Categories) > 0 {
			lines = append(lines, "   Topics: "+strings.Join(c.Categories[:min(competitorTopicsMax, len(c.Categories))], ", "))
		}
		if c.Report != nil {
			lines = append(lines, fmt.Sprintf("   Audience quality: %.1f", c.Report.AudienceQualityScore))
		}
		lines = append(lines, "   "+f.styles.Info.Render(c.Link()))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	if ranking.Rank > 0 {
		sections = append(sections, f.formatRanking(ranking))
	}
	sections = append(sections, f.formatList(cli.IdeaIcon+" Next steps", competitorTips))

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatRanking(r *competitor.Ranking) string {
	lines := []string{
		f.styles.Section.Render("🏁 Your position"),
		f.styles.Score.Render(fmt.Sprintf("Rank #%d of %d", r.Rank, r.CompetitorsAnalyzed+1)),
		fmt.Sprintf("Your quality: %.1f · competitor average: %.1f", r.TargetQuality, r.AvgCompetitorQuality),
	}
	for _, s := range r.Strengths {
		lines = append(lines, cli.FormatSuccess(s))
	}
	for _, w := range r.Weaknesses {
		lines = append(lines, cli.FormatError(w))
	}
	for _, rec := range r.Recommendations {
		lines = append(lines, "• "+rec)
	}
	return strings.Join(lines, "\n")
}

// FormatStats renders a requester's activity.
func (f *Formatter) FormatStats(stats *model.UserStats) string {
	lines := []string{
		f.styles.Title.UnsetMargins().Render("📈 Your statistics"),
		fmt.Sprintf("👤 User ID: %d", stats.UserID),
		fmt.Sprintf("🔍 Groups analyzed: %d", stats.TotalAnalyses),
		fmt.Sprintf("💾 Saved reports: %d", stats.SavedReports),
	}
	if !stats.LastActivity.IsZero() {
		lines = append(lines, f.styles.Subtle.Render("Last activity: "+stats.LastActivity.Local().Format(timeLayout)))
	}

	lines = append(lines, "")
	if len(stats.LastAnalyses) == 0 {
		lines = append(lines, f.styles.Subtle.Render("No saved analyses yet"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, f.styles.Section.Render("Recent analyses"))
	for _, a := range stats.LastAnalyses {
		lines = append(lines, fmt.Sprintf("• %s - %s", a.GroupName, a.CreatedAt.Local().Format(timeLayout)))
	}
	return strings.Join(lines, "\n")
}

// FormatHistory renders stored analyses as a table, newest first.
func (f *Formatter) FormatHistory(summaries []model.AnalysisSummary) string {
	if len(summaries) == 0 {
		return f.styles.Subtle.Render("No analyses yet")
	}

	lines := []string{f.styles.Section.Render(fmt.Sprintf("%-36s  %-16s  %s", "ID", "Created", "Group"))}
	for _, s := range summaries {
		name := s.GroupName
		if !s.HasData {
			name += f.styles.Subtle.Render(" (no data)")
		}
		lines = append(lines, fmt.Sprintf("%-36s  %-16s  %s", s.ID, s.CreatedAt.Local().Format(timeLayout), name))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatList(title string, items []string) string {
	lines := []string{f.styles.Section.Render(title)}
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) row(label string, pct float64) string {
	return f.styles.Label.Render(label) + f.styles.RenderBar(pct, f.barWidth) + fmt.Sprintf(" %5.1f%%", pct)
}

// truncate cuts s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// FormatDuration renders an elapsed time rounded for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
