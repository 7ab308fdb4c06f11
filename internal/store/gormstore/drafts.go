package gormstore

import (
	"context"
	"time"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateDraft(ctx context.Context, d *model.Draft) error {
	defer prometheus.TrackDBOperation("create_draft")(time.Now())
	return translate(s.conn(ctx).Create(d).Error)
}

func (s *Store) GetDraft(ctx context.Context, tenantID, id string) (*model.Draft, error) {
	defer prometheus.TrackDBOperation("get_draft")(time.Now())

	var d model.Draft
	if err := s.conn(ctx).First(&d, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *Store) ListDrafts(ctx context.Context, tenantID string, limit int) ([]model.Draft, error) {
	defer prometheus.TrackDBOperation("list_drafts")(time.Now())

	q := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var drafts []model.Draft
	if err := q.Find(&drafts).Error; err != nil {
		return nil, translate(err)
	}
	return drafts, nil
}

func (s *Store) SaveDraft(ctx context.Context, d *model.Draft) error {
	defer prometheus.TrackDBOperation("save_draft")(time.Now())

	res := s.conn(ctx).Model(&model.Draft{}).
		Where("tenant_id = ? AND id = ?", d.TenantID, d.ID).
		Updates(map[string]any{
			"title":        d.Title,
			"content":      d.Content,
			"topic":        d.Topic,
			"status":       d.Status,
			"updated_at":   d.UpdatedAt,
			"reviewed_by":  d.ReviewedBy,
			"review_notes": d.ReviewNotes,
			"reviewed_at":  d.ReviewedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
