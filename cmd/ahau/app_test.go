package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/notify"
	"github.com/ldflores83/falconcore/internal/secrets"
)

func TestNewMailerFallsBackToNop(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	keys := secrets.NewCache(secrets.EnvProvider{}, 4, time.Minute, time.Second)

	cfg := &config.Config{}
	m, err := newMailer(ctx, cfg, keys, zap.NewNop())
	is.NoErr(err)
	_, nop := m.(notify.NopMailer)
	is.True(nop) // no secret configured

	cfg.Email.APIKeySecret = "AHAU_TEST_MISSING_RESEND_KEY"
	m, err = newMailer(ctx, cfg, keys, zap.NewNop())
	is.NoErr(err)
	_, nop = m.(notify.NopMailer)
	is.True(nop) // secret configured but absent
}

func TestNewMailerUsesResend(t *testing.T) {
	is := is.New(t)
	t.Setenv("AHAU_TEST_RESEND_KEY", "re_test")
	keys := secrets.NewCache(secrets.EnvProvider{}, 4, time.Minute, time.Second)

	cfg := &config.Config{Email: config.EmailConfig{
		APIKeySecret: "AHAU_TEST_RESEND_KEY",
		FromEmail:    "no-reply@example.com",
	}}
	m, err := newMailer(context.Background(), cfg, keys, zap.NewNop())
	is.NoErr(err)
	_, ok := m.(*notify.ResendMailer)
	is.True(ok)
}

func TestNewPublisher(t *testing.T) {
	is := is.New(t)

	p := newPublisher(&config.Config{}, zap.NewNop())
	_, nop := p.(events.NopPublisher)
	is.True(nop)

	p = newPublisher(&config.Config{Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}}, zap.NewNop())
	_, kafka := p.(*events.KafkaPublisher)
	is.True(kafka)
	is.NoErr(p.Close())
}

func TestOpenSQLiteStore(t *testing.T) {
	is := is.New(t)
	cfg := &config.Config{DB: config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "ahau.db"),
		LogLevel: gormlogger.Silent,
	}}

	st, err := openStore(context.Background(), cfg, zap.NewNop())
	is.NoErr(err)
	defer st.Close()
	is.NoErr(st.Ping(context.Background()))
}
