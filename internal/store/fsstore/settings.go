package fsstore

import (
	"context"
	"time"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	defer prometheus.TrackDBOperation("get_settings")(time.Now())

	snap, err := s.get(ctx, s.settingsRef(tenantID))
	if err != nil {
		return nil, translate(err)
	}
	var settings model.TenantSettings
	if err := snap.DataTo(&settings); err != nil {
		return nil, err
	}
	settings.TenantID = tenantID
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *model.TenantSettings) error {
	defer prometheus.TrackDBOperation("save_settings")(time.Now())
	return translate(s.set(ctx, s.settingsRef(settings.TenantID), settings))
}
