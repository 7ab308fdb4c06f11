package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/prometheus"
)

func decodeDraft(tenantID string, snap *firestore.DocumentSnapshot) (*model.Draft, error) {
	var d model.Draft
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	d.TenantID = tenantID
	d.ID = snap.Ref.ID
	return &d, nil
}

func (s *Store) CreateDraft(ctx context.Context, d *model.Draft) error {
	defer prometheus.TrackDBOperation("create_draft")(time.Now())
	return translate(s.create(ctx, s.drafts(d.TenantID).Doc(d.ID), d))
}

func (s *Store) GetDraft(ctx context.Context, tenantID, id string) (*model.Draft, error) {
	defer prometheus.TrackDBOperation("get_draft")(time.Now())

	snap, err := s.get(ctx, s.drafts(tenantID).Doc(id))
	if err != nil {
		return nil, translate(err)
	}
	return decodeDraft(tenantID, snap)
}

func (s *Store) ListDrafts(ctx context.Context, tenantID string, limit int) ([]model.Draft, error) {
	defer prometheus.TrackDBOperation("list_drafts")(time.Now())

	q := s.drafts(tenantID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := s.query(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Draft, 0, len(snaps))
	for _, snap := range snaps {
		d, err := decodeDraft(tenantID, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *Store) SaveDraft(ctx context.Context, d *model.Draft) error {
	defer prometheus.TrackDBOperation("save_draft")(time.Now())

	var reviewedAt any
	if d.ReviewedAt != nil {
		reviewedAt = *d.ReviewedAt
	}
	return translate(s.update(ctx, s.drafts(d.TenantID).Doc(d.ID), []firestore.Update{
		{Path: "title", Value: d.Title},
		{Path: "content", Value: d.Content},
		{Path: "topic", Value: d.Topic},
		{Path: "status", Value: string(d.Status)},
		{Path: "updatedAt", Value: d.UpdatedAt},
		{Path: "reviewedBy", Value: d.ReviewedBy},
		{Path: "reviewNotes", Value: d.ReviewNotes},
		{Path: "reviewedAt", Value: reviewedAt},
	}))
}
