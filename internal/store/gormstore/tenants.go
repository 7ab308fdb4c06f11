package gormstore

import (
	"context"
	"time"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("create_tenant")(time.Now())
	return translate(s.conn(ctx).Create(tenant).Error)
}

func (s *Store) GetTenant(ctx context.Context, id string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("get_tenant")(time.Now())

	var tenant model.Tenant
	if err := s.conn(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (s *Store) FindTenantByCreator(ctx context.Context, uid string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("find_tenant_by_creator")(time.Now())

	var tenant model.Tenant
	err := s.conn(ctx).
		Where("created_by = ?", uid).
		Order("created_at ASC").
		First(&tenant).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("update_tenant")(time.Now())

	res := s.conn(ctx).Model(&model.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]any{
			"name":       tenant.Name,
			"logo_url":   tenant.LogoURL,
			"updated_at": tenant.UpdatedAt,
			"updated_by": tenant.UpdatedBy,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
