package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/report"
)

// compareSampleSize is how many members of each group a comparison samples.
const compareSampleSize = 500

type comparisonOutput struct {
	A          *model.Group            `json:"group_a"`
	B          *model.Group            `json:"group_b"`
	Comparison *model.ComparisonReport `json:"comparison"`
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <group-link> <group-link>",
		Short: "Compare the audiences of two VK groups",
		Long: `Sample the members of two open groups, analyze both and report how similar
their audiences are: gender, age, geography, interests and quality.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().Int("limit", compareSampleSize, "Members to sample from each group")
	cmd.Flags().String("output", "text", "Output format (text, json)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
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

	groups := make([]*model.Group, len(args))
	reports := make([]*model.AnalysisReport, len(args))
	for i, link := range args {
		if groups[i], err = resolveOpenGroup(ctx, client, link); err != nil {
			return err
		}
		if reports[i], err = fetchAndAnalyze(ctx, cmd, client, analyzer, groups[i], limit); err != nil {
			return err
		}
	}

	cmp := audience.Compare(reports[0], reports[1])
	text := report.NewFormatter().FormatComparison(groups[0].Name, groups[1].Name, cmp)
	return report.Write(cmd.OutOrStdout(), out, text, comparisonOutput{A: groups[0], B: groups[1], Comparison: cmp})
}
