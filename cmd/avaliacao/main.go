package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/config"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/logging"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/server"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/util"
)

var (
	port    = flag.Int("port", 0, "porta HTTP (vale apenas quando config.toml não define port)")
	devMode = flag.Bool("dev", false, "modo desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrescreve a configuração)")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Fatalf("carregar configuração: %v", err)
	}
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("inicializar logger: %v", err)
	}

	logger.Info("configuration loaded",
		zap.String("path", info.Path),
		zap.Bool("file_found", info.FileFound),
		zap.Strings("env_overrides", info.EnvOverrides),
	)
	if !info.FileFound {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			logger.Warn("could not write default config", zap.String("path", info.Path), zap.Error(err))
		} else {
			logger.Info("default config written", zap.String("path", info.Path))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server exited", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Everything it opens
// is closed before it returns.
func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logger.Info("data dir ready", zap.String("dir", dir))

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if err := seedAliases(ctx, st, cfg.Aliases); err != nil {
		return fmt.Errorf("seed aliases: %w", err)
	}

	srv := server.NewServer(cfg, st, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(addr)
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowser(url); err != nil {
			logger.Warn("could not open browser", zap.String("url", url), zap.Error(err))
		}
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// seedAliases upserts the aliases declared in config.toml
func seedAliases(ctx context.Context, st *store.Store, aliases []config.AliasConfig) error {
	for _, a := range aliases {
		alias := importer.NormalizeSupplierName(a.Alias)
		canonical := importer.NormalizeSupplierName(a.Supplier)
		if alias == "" || canonical == "" || alias == canonical {
			continue
		}
		if err := st.UpsertAlias(ctx, model.Alias{Alias: alias, Canonical: canonical}); err != nil {
			return err
		}
	}
	return nil
}
