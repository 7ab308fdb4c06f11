package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/contentgen"
	"github.com/ldflores83/falconcore/internal/handler"
	"github.com/ldflores83/falconcore/internal/service"
	"github.com/ldflores83/falconcore/pkg/logger"
	"github.com/ldflores83/falconcore/prometheus"
)

const serviceName = "ahau"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.InitLogger(cfg.Log.Level, cfg.Server.Env, serviceName)
	defer func() { _ = log.Sync() }()
	log.Info("Starting ahau service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("identity verifier: %w", err)
	}

	keys, closeSecrets, err := newSecretCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	defer closeSecrets()

	mailer, err := newMailer(ctx, cfg, keys, log)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	prometheus.InitMetrics(Version, cfg.Server.Env, cfg.DB.Driver)
	log.Info("Prometheus metrics initialized")

	keyer := service.NewMemberKeyer(cfg.Tenant.MemberKeySalt)
	generator := contentgen.NewOpenAIGenerator(keys, contentgen.Config{
		Model:       cfg.Content.Model,
		MaxTokens:   cfg.Content.MaxTokens,
		Temperature: float32(cfg.Content.Temperature),
		BaseURL:     cfg.Content.BaseURL,
		KeySecret:   cfg.Content.APIKeySecret,
	})

	points := service.NewPointsService(st, log)
	h := handler.New(handler.Services{
		Tenants:   service.NewTenantService(st, publisher, keyer, cfg.Tenant.Namespace, log),
		Members:   service.NewMembershipService(st, publisher, mailer, keyer, cfg.Email.Timeout, log),
		Drafts:    service.NewDraftService(st, points, log),
		Content:   service.NewContentService(st, generator, cfg.Content.Timeout, log),
		Profiles:  service.NewProfileService(st, log),
		Templates: service.NewTemplateService(st, log),
		Calendar:  service.NewCalendarService(st, points, log),
		Points:    points,
		DB:        st,
	})

	e := handler.NewEcho(log)
	handler.Register(e, h, handler.RouterConfig{
		Verifier:    verifier,
		ContentRate: cfg.Content.RateLimit,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- e.Start(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
