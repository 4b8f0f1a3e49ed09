package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/competitor"
	"github.com/Veraticus/audience-scope/internal/report"
)

func competitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "competitors <group-link>",
		Short: "Find and rank similar VK groups",
		Long: `Search VK for open groups similar to the target by name, keywords and topic,
analyze a sample of each competitor's audience and rank the target among them.`,
		Args: cobra.ExactArgs(1),
		RunE: runCompetitors,
	}

	cmd.Flags().Int("limit", 0, "Maximum members of the target group to fetch (default: vk.max_members)")
	cmd.Flags().Int("max", competitor.DefaultMaxCompetitors, "Maximum competitors to analyze")
	cmd.Flags().Float64("min-similarity", competitor.DefaultMinSimilarity, "Minimum keyword similarity (0-1)")
	cmd.Flags().String("output", "text", "Output format (text, json)")

	return cmd
}

func runCompetitors(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	maxCompetitors, _ := cmd.Flags().GetInt("max")
	minSimilarity, _ := cmd.Flags().GetFloat64("min-similarity")
	outputFlag, _ := cmd.Flags().GetString("output")

	out, err := report.ParseOutput(outputFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	client, err := newVKClient(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	group, err := resolveOpenGroup(ctx, client, args[0])
	if err != nil {
		return err
	}

	targetReport, err := fetchAndAnalyze(ctx, cmd, client, analyzer, group, limit)
	if err != nil {
		return err
	}

	finder := competitor.NewFinder(client,
		competitor.WithLogger(slog.Default()),
		competitor.WithMaxCompetitors(maxCompetitors),
		competitor.WithMinSimilarity(minSimilarity),
	)

	slog.Info("Searching for competitors", "group", group.Name)
	similar, err := finder.FindSimilar(ctx, group)
	if err != nil {
		return err
	}

	slog.Info("Analyzing competitors", "count", len(similar))
	competitors, err := competitor.AnalyzeAll(ctx, client, analyzer, similar, slog.Default())
	if err != nil {
		return err
	}

	ranking := competitor.Rank(group, targetReport, competitors)
	text := report.NewFormatter().FormatCompetitors(group, ranking)
	return report.Write(cmd.OutOrStdout(), out, text, ranking)
}
