package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	defer prometheus.TrackDBOperation("get_settings")(time.Now())

	var settings model.TenantSettings
	if err := s.conn(ctx).First(&settings, "tenant_id = ?", tenantID).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *model.TenantSettings) error {
	defer prometheus.TrackDBOperation("save_settings")(time.Now())

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		UpdateAll: true,
	}).Create(settings).Error
	return translate(err)
}
