package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("create_tenant")(time.Now())
	return translate(s.create(ctx, s.tenantRef(tenant.ID), tenant))
}

func (s *Store) GetTenant(ctx context.Context, id string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("get_tenant")(time.Now())

	snap, err := s.get(ctx, s.tenantRef(id))
	if err != nil {
		return nil, translate(err)
	}
	var tenant model.Tenant
	if err := snap.DataTo(&tenant); err != nil {
		return nil, err
	}
	tenant.ID = snap.Ref.ID
	return &tenant, nil
}

func (s *Store) FindTenantByCreator(ctx context.Context, uid string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("find_tenant_by_creator")(time.Now())

	q := s.client.Collection(tenantsCollection).
		Where("createdBy", "==", uid).
		OrderBy("createdAt", firestore.Asc).
		Limit(1)
	snaps, err := s.query(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var tenant model.Tenant
	if err := snaps[0].DataTo(&tenant); err != nil {
		return nil, err
	}
	tenant.ID = snaps[0].Ref.ID
	return &tenant, nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("update_tenant")(time.Now())

	return translate(s.update(ctx, s.tenantRef(tenant.ID), []firestore.Update{
		{Path: "name", Value: tenant.Name},
		{Path: "logoUrl", Value: tenant.LogoURL},
		{Path: "updatedAt", Value: tenant.UpdatedAt},
		{Path: "updatedBy", Value: tenant.UpdatedBy},
	}))
}
