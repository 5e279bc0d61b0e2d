// Command lifeplan-server runs the life planning HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/chat"
	"github.com/furkancam7/lifeplan/internal/config"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/report"
	"github.com/furkancam7/lifeplan/internal/server"
	"github.com/furkancam7/lifeplan/internal/store"
)

var (
	configPath string
	addrFlag   string
)

func main() {
	root := &cobra.Command{
		Use:   "lifeplan-server",
		Short: "Life planning service: profile chat, projections and reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.Flags().StringVar(&addrFlag, "addr", "", "listen address, overrides config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}

	logger := logging.New(cfg.Log.Level)

	profiles, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	gen := buildGenerator(ctx, cfg, logger)

	artifacts, err := report.NewStore(cfg.Reports.Dir)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(profiles, auth.NewRegistry())
	chatCtl := chat.NewController(profiles, gen, logger)
	reports := report.NewService(profiles, gen, artifacts, logger)

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.Server.Addr
	srvCfg.Debug = cfg.Server.Debug
	srvCfg.EnableCORS = cfg.Server.EnableCORS
	srv := server.New(srvCfg, server.Deps{
		Auth:     authSvc,
		Profiles: profiles,
		Chat:     chatCtl,
		Reports:  reports,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	})
	return srv.Run(ctx)
}

func buildStore(ctx context.Context, cfg config.Config, logger logging.Logger) (store.ProfileStore, error) {
	if cfg.Database.URL == "" {
		logger.Info("using in-memory profile store")
		return store.NewMemory(), nil
	}
	pg, err := store.NewPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	logger.Info("using postgres profile store")
	return pg, nil
}

func buildGenerator(ctx context.Context, cfg config.Config, logger logging.Logger) llm.Generator {
	if cfg.Gemini.APIKey == "" {
		logger.Warn("no gemini api key configured, conversational features run degraded")
		return llm.Disabled{}
	}
	gen, err := llm.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		logger.Error("gemini client init failed, running degraded: %v", err)
		return llm.Disabled{}
	}
	return gen
}
