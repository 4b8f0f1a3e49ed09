package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/api"
	"github.com/Veraticus/audience-scope/internal/certs"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Long: `Serve the JSON API: POST /v1/analyze, POST /v1/compare and the stored
analysis and user statistics endpoints. Stops gracefully on interrupt.

With --tls (or server.tls) the API is served over HTTPS using a self-signed
certificate generated in server.cert_dir.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr)")
	cmd.Flags().Bool("no-storage", false, "Serve analysis only, without persistence endpoints")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate (default: server.tls)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	noStorage, _ := cmd.Flags().GetBool("no-storage")
	useTLS, _ := cmd.Flags().GetBool("tls")

	ctx := cmd.Context()
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	opts := api.Options{
		Logger:         slog.Default(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	if useTLS || cfg.Server.TLS {
		manager := certs.NewFileManager(cfg.Server.CertDir, cfg.Server.TLSHosts...)
		if opts.TLSConfig, err = manager.TLSConfig(); err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		slog.Info("Serving HTTPS", "certificate", manager.CertFile())
	}

	if noStorage {
		return api.NewServer(analyzer, nil, opts).ListenAndServe(ctx, addr)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	return api.NewServer(analyzer, store, opts).ListenAndServe(ctx, addr)
}
