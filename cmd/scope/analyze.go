package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/report"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <group-link>",
		Short: "Analyze the audience of a VK group",
		Long: `Fetch the members of an open VK group and build an audience report:
gender and age, geography, interests, activity, profile completeness,
an overall quality score and recommendations.

Reports are cached in Redis when redis.url is configured.`,
		Example: `  scope analyze https://vk.com/club123
  scope analyze vk.com/godevs --limit 2000 --output json
  scope analyze godevs --user 42`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	// Flags
	cmd.Flags().Int("limit", 0, "Maximum members to fetch (default: vk.max_members)")
	cmd.Flags().Int64("user", 0, "Save the analysis to the history of this user id")
	cmd.Flags().Bool("no-cache", false, "Ignore and replace any cached report")
	cmd.Flags().String("output", "text", "Output format (text, json)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	userID, _ := cmd.Flags().GetInt64("user")
	noCache, _ := cmd.Flags().GetBool("no-cache")
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

	reports, closeCache := openCache(ctx, cfg)
	defer closeCache()

	cacheKey := reportCacheKey(group.IDString(), limit)
	if noCache {
		if err := reports.Invalidate(ctx, cacheKey); err != nil {
			slog.Warn("Failed to invalidate cached report", "group_id", group.ID, "error", err)
		}
	}

	rep, err := reports.Get(ctx, cacheKey)
	if err != nil {
		slog.Warn("Failed to read cached report", "group_id", group.ID, "error", err)
	}

	if rep != nil {
		slog.Info("Using cached report", "group", group.Name)
	} else {
		rep, err = fetchAndAnalyze(ctx, cmd, client, analyzer, group, limit)
		if err != nil {
			return err
		}
		if err := reports.Set(ctx, cacheKey, rep); err != nil {
			slog.Warn("Failed to cache report", "group_id", group.ID, "error", err)
		}
	}

	if userID != 0 {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() { _ = store.Close() }()

		stored, err := store.SaveAnalysis(ctx, userID, group.IDString(), group.Name, rep)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		slog.Info("Analysis saved", "id", stored.ID, "user_id", userID)
	}

	text := report.NewFormatter().FormatAnalysis(group, rep)
	return report.Write(cmd.OutOrStdout(), out, text, rep)
}

// reportCacheKey keeps reports built from a custom --limit apart from the
// default full-size report of the same group.
func reportCacheKey(groupID string, limit int) string {
	if limit <= 0 {
		return groupID
	}
	return groupID + ":limit" + strconv.Itoa(limit)
}
