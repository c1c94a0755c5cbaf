package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmehdipour/notify-relay/internal/config"
	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/jmehdipour/notify-relay/internal/dispatcher"
	httpSrv "github.com/jmehdipour/notify-relay/internal/http"
	"github.com/jmehdipour/notify-relay/internal/logger"
	"github.com/jmehdipour/notify-relay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)
		log := logger.Log
		defer func() { _ = log.Sync() }()

		creds, origin, err := config.LoadCredentials(cfg.Credentials)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}

		resolver, mode, err := credentials.New(creds)
		if err != nil {
			return fmt.Errorf("credentials: %w", err)
		}

		tokens := 0
		if t, ok := resolver.(*credentials.Table); ok {
			tokens = t.Len()
		}

		switch origin {
		case config.OriginFile:
			log.Info("using configuration file", zap.String("path", cfg.Credentials.Path), zap.Int("tokens", tokens))
		case config.OriginBase64:
			log.Info("using configuration from CONFIG_BASE64", zap.Int("tokens", tokens))
		default:
			log.Warn("no configuration found, using zero-configuration mode",
				zap.String("path", cfg.Credentials.Path),
				zap.String("mode", mode.String()),
			)
		}

		metrics.MustRegister(prometheus.DefaultRegisterer)

		provider := dispatcher.NewLineProvider(
			cfg.Line.APIBase,
			cfg.Line.Timeout,
			cfg.Line.Breaker.FailThreshold,
			cfg.Line.Breaker.OpenFor,
		)
		server := httpSrv.NewServer(resolver, dispatcher.NewDispatcher(provider), log, cfg.HTTP.BodyLimit)

		addr := ":" + strconv.Itoa(cfg.HTTP.Port)
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				log.Error("http server exited", zap.Error(err))
				return err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
