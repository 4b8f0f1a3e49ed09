package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/cache"
	"github.com/Veraticus/audience-scope/internal/cli"
	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/config"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
	"github.com/Veraticus/audience-scope/internal/storage"
	"github.com/Veraticus/audience-scope/internal/vk"
)

// currentConfig returns the configuration loaded by initConfig, or the
// defaults when a command runs without the root command.
func currentConfig() (*config.Config, error) {
	if appCfg != nil {
		return appCfg, nil
	}
	v := viper.New()
	config.SetDefaults(v)
	return config.Load(v)
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func newVKClient(cfg *config.Config) (*vk.Client, error) {
	if err := cfg.RequireVKToken(); err != nil {
		return nil, err
	}
	return vk.New(vk.Config{
		Logger:       slog.Default(),
		Token:        cfg.VK.Token,
		APIVersion:   cfg.VK.APIVersion,
		BaseURL:      cfg.VK.BaseURL,
		RequestDelay: cfg.VK.RequestDelay,
		MaxMembers:   cfg.VK.MaxMembers,
	})
}

func newAnalyzer(cfg *config.Config) (*audience.Analyzer, error) {
	dict, err := cfg.Dictionary()
	if err != nil {
		return nil, err
	}
	return audience.NewAnalyzer(
		audience.WithDictionary(dict),
		audience.WithLogger(slog.Default()),
	), nil
}

// openCache connects to Redis when configured. An unreachable cache degrades
// to no caching.
func openCache(ctx context.Context, cfg *config.Config) (service.ReportCache, func()) {
	if cfg.Redis.URL == "" {
		return cache.NopCache{}, func() {}
	}
	rc, err := cache.Dial(ctx, cfg.Redis.URL, cfg.Redis.TTL)
	if err != nil {
		slog.Warn("Report cache unavailable, continuing without it", "error", err)
		return cache.NopCache{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

// resolveOpenGroup fetches group metadata and rejects closed groups.
func resolveOpenGroup(ctx context.Context, fetcher service.ProfileFetcher, link string) (*model.Group, error) {
	group, err := fetcher.GetGroup(ctx, link)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not find group %q", link), err)
	}
	if !group.IsOpen() {
		return nil, common.NewUserError(
			fmt.Sprintf("Group %q is closed; only open groups can be analyzed", group.Name),
			common.ErrGroupClosed,
		)
	}
	return group, nil
}

// fetchAndAnalyze downloads up to limit members with a progress bar and
// analyzes them.
func fetchAndAnalyze(ctx context.Context, cmd *cobra.Command, fetcher service.ProfileFetcher, analyzer *audience.Analyzer, group *model.Group, limit int) (*model.AnalysisReport, error) {
	progress := cli.NewFetchProgress(cmd.ErrOrStderr(), "Fetching "+group.Name)
	members, err := fetcher.GetMembers(ctx, group.IDString(), limit, progress.OnPage)
	progress.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members of %s: %w", group.Name, err)
	}

	slog.Info("Fetched members", "group", group.Name, "count", len(members))
	return analyzer.Analyze(ctx, members)
}
