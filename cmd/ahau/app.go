package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/notify"
	"github.com/ldflores83/falconcore/internal/secrets"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/internal/store/fsstore"
	"github.com/ldflores83/falconcore/internal/store/gormstore"
)

// appStore is a store the process owns.
type appStore interface {
	store.Store
	Ping(ctx context.Context) error
	Close() error
}

// openStore connects to the configured backend. SQL schemas are migrated on
// open.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (appStore, error) {
	switch cfg.DB.Driver {
	case config.DriverFirestore:
		st, err := fsstore.Open(ctx, cfg.Firebase.ProjectID)
		if err != nil {
			return nil, err
		}
		log.Info("Firestore connection established", zap.String("project_id", cfg.Firebase.ProjectID))
		return st, nil
	default:
		db, err := gormstore.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := gormstore.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("Database connection established and migrations completed", zap.String("driver", cfg.DB.Driver))
		return gormstore.New(db), nil
	}
}

func newVerifier(ctx context.Context, cfg *config.Config) (identity.Verifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthJWT:
		return jwtVerifier(cfg), nil
	default:
		client, err := identity.NewFirebaseAuthClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseVerifier(client, cfg.Auth.CheckRevoked), nil
	}
}

func jwtVerifier(cfg *config.Config) *identity.JWTVerifier {
	return identity.NewJWTVerifier(cfg.Auth.SigningKey, time.Duration(cfg.Auth.ExpirationHours)*time.Hour)
}

// newSecretCache returns the process-wide secret cache and a cleanup func.
// With the gcp provider the environment is consulted when Secret Manager has
// no value.
func newSecretCache(ctx context.Context, cfg *config.Config) (*secrets.Cache, func(), error) {
	var (
		provider secrets.Provider = secrets.EnvProvider{}
		cleanup                   = func() {}
	)
	if cfg.Secrets.Provider == config.SecretsGCP {
		gcp, err := secrets.NewGCPProvider(ctx, cfg.Secrets.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		provider = secrets.Fallback{gcp, secrets.EnvProvider{}}
		cleanup = func() { _ = gcp.Close() }
	}
	return secrets.NewCache(provider, cfg.Secrets.CacheSize, cfg.Secrets.TTL, cfg.Secrets.Timeout), cleanup, nil
}

// newMailer returns a Resend mailer, or a no-op mailer when no API key is
// configured.
func newMailer(ctx context.Context, cfg *config.Config, keys *secrets.Cache, log *zap.Logger) (notify.Mailer, error) {
	if cfg.Email.APIKeySecret == "" {
		log.Info("Invitation email disabled")
		return notify.NopMailer{}, nil
	}

	apiKey, err := keys.Get(ctx, cfg.Email.APIKeySecret)
	if errors.Is(err, secrets.ErrNotFound) {
		log.Warn("Invitation email disabled, API key not found", zap.String("secret", cfg.Email.APIKeySecret))
		return notify.NopMailer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("email api key: %w", err)
	}

	return notify.NewResendMailer(notify.ResendConfig{
		APIKey:    apiKey,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		InviteURL: cfg.Email.InviteURL,
	}, log)
}

func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Audit event publishing disabled")
		return events.NopPublisher{}
	}
	log.Info("Publishing audit events to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
