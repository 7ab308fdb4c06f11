// Package service implements the tenant directory, the membership guard and
// the tenant scoped content operations on top of store.Store.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/pkg/logger"
	"github.com/ldflores83/falconcore/prometheus"
)

const publishTimeout = 5 * time.Second

// Actor is the authenticated caller acting within a tenant.
type Actor struct {
	UID   string
	Email string
	Role  model.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

type deps struct {
	store  store.Store
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func newDeps(st store.Store, pub events.Publisher, log *zap.Logger) deps {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return deps{
		store:  st,
		events: pub,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (d deps) logger(ctx context.Context) *zap.Logger {
	return logger.FromCtx(ctx, d.log)
}

// publish hands ev to the publisher after the write it describes committed.
// Failures are logged only.
func (d deps) publish(ctx context.Context, ev events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := d.events.Publish(ctx, ev)
	prometheus.RecordEventPublish(string(ev.Type), err)
	if err != nil {
		d.logger(ctx).Warn("Failed to publish audit event",
			zap.String("type", string(ev.Type)),
			zap.String("tenant_id", ev.TenantID),
			zap.Error(err))
	}
}

// classify passes application errors through and maps store sentinels.
func classify(err error, notFoundCode, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, store.ErrNotFound) && notFoundCode != "" {
		return apperr.NotFound(notFoundCode, notFoundMsg).Wrap(err)
	}
	return apperr.Internal(err)
}
