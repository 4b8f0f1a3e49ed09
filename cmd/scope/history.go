package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/cli"
	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/report"
)

const defaultHistoryLimit = 10

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics for a user",
		RunE:  runStats,
	}

	cmd.Flags().Int64("user", 0, "User id (required)")
	cmd.Flags().String("output", "text", "Output format (text, json)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	outputFlag, _ := cmd.Flags().GetString("output")

	out, err := report.ParseOutput(outputFlag)
	if err != nil {
		return err
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	stats, err := store.GetUserStats(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	return report.Write(cmd.OutOrStdout(), out, report.NewFormatter().FormatStats(stats), stats)
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses of a user",
		RunE:  runHistory,
	}

	cmd.Flags().Int64("user", 0, "User id (required)")
	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum analyses to list")
	cmd.Flags().String("output", "text", "Output format (text, json)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	limit, _ := cmd.Flags().GetInt("limit")
	outputFlag, _ := cmd.Flags().GetString("output")

	out, err := report.ParseOutput(outputFlag)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", common.ErrInvalidInput)
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	summaries, err := store.GetRecentAnalyses(cmd.Context(), userID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	return report.Write(cmd.OutOrStdout(), out, report.NewFormatter().FormatHistory(summaries), summaries)
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Show a saved analysis",
		Long: `Render a saved analysis. With --export the report is also written as JSON
to the given file and counted as a saved report in the owner's statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().String("export", "", "Write the report as JSON to this file")
	cmd.Flags().String("output", "text", "Output format (text, json)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	exportPath, _ := cmd.Flags().GetString("export")
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
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	stored, err := store.GetAnalysis(ctx, args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Analysis %s not found", args[0]), err)
	}

	if exportPath != "" {
		if err := exportReport(exportPath, stored); err != nil {
			return err
		}
		if err := store.MarkReportSaved(ctx, stored.UserID); err != nil {
			return fmt.Errorf("failed to record saved report: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Report exported to "+exportPath))
	}

	group := &model.Group{Name: stored.GroupName}
	if id, err := strconv.ParseInt(stored.GroupID, 10, 64); err == nil {
		group.ID = id
	} else {
		group.ScreenName = stored.GroupID
	}

	text := report.NewFormatter().FormatAnalysis(group, stored.Report)
	return report.Write(cmd.OutOrStdout(), out, text, stored)
}

func exportReport(path string, stored *model.StoredAnalysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := report.WriteJSON(f, stored); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return f.Close()
}
