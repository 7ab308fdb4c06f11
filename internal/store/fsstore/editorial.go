package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateProfile(ctx context.Context, p *model.Profile) error {
	defer prometheus.TrackDBOperation("create_profile")(time.Now())
	return translate(s.create(ctx, s.profiles(p.TenantID).Doc(p.ID), p))
}

func decodeProfile(tenantID string, snap *firestore.DocumentSnapshot) (*model.Profile, error) {
	var p model.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.TenantID = tenantID
	p.ID = snap.Ref.ID
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, tenantID, id string) (*model.Profile, error) {
	defer prometheus.TrackDBOperation("get_profile")(time.Now())

	snap, err := s.get(ctx, s.profiles(tenantID).Doc(id))
	if err != nil {
		return nil, translate(err)
	}
	return decodeProfile(tenantID, snap)
}

func (s *Store) ListProfiles(ctx context.Context, tenantID string) ([]model.Profile, error) {
	defer prometheus.TrackDBOperation("list_profiles")(time.Now())

	snaps, err := s.query(ctx, s.profiles(tenantID).OrderBy("createdAt", firestore.Asc))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Profile, 0, len(snaps))
	for _, snap := range snaps {
		p, err := decodeProfile(tenantID, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) error {
	defer prometheus.TrackDBOperation("save_profile")(time.Now())

	return translate(s.update(ctx, s.profiles(p.TenantID).Doc(p.ID), []firestore.Update{
		{Path: "displayName", Value: p.DisplayName},
		{Path: "role", Value: p.Role},
		{Path: "avatarUrl", Value: p.AvatarURL},
		{Path: "tone", Value: p.Tone},
		{Path: "dos", Value: p.Dos},
		{Path: "donts", Value: p.Donts},
		{Path: "samples", Value: p.Samples},
		{Path: "updatedAt", Value: p.UpdatedAt},
		{Path: "updatedBy", Value: p.UpdatedBy},
	}))
}

func (s *Store) CreateTemplate(ctx context.Context, t *model.Template) error {
	defer prometheus.TrackDBOperation("create_template")(time.Now())
	return translate(s.create(ctx, s.templates(t.TenantID).Doc(t.ID), t))
}

func decodeTemplate(tenantID string, snap *firestore.DocumentSnapshot) (*model.Template, error) {
	var t model.Template
	if err := snap.DataTo(&t); err != nil {
		return nil, err
	}
	t.TenantID = tenantID
	t.ID = snap.Ref.ID
	return &t, nil
}

func (s *Store) GetTemplate(ctx context.Context, tenantID, id string) (*model.Template, error) {
	defer prometheus.TrackDBOperation("get_template")(time.Now())

	snap, err := s.get(ctx, s.templates(tenantID).Doc(id))
	if err != nil {
		return nil, translate(err)
	}
	return decodeTemplate(tenantID, snap)
}

func (s *Store) ListTemplates(ctx context.Context, tenantID string) ([]model.Template, error) {
	defer prometheus.TrackDBOperation("list_templates")(time.Now())

	snaps, err := s.query(ctx, s.templates(tenantID).OrderBy("createdAt", firestore.Asc))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Template, 0, len(snaps))
	for _, snap := range snaps {
		t, err := decodeTemplate(tenantID, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *Store) SaveSlot(ctx context.Context, slot *model.CalendarSlot) error {
	defer prometheus.TrackDBOperation("save_slot")(time.Now())
	return translate(s.set(ctx, s.slots(slot.TenantID, slot.Month).Doc(slot.ID), slot))
}

func (s *Store) ListSlots(ctx context.Context, tenantID, month string) ([]model.CalendarSlot, error) {
	defer prometheus.TrackDBOperation("list_slots")(time.Now())

	snaps, err := s.query(ctx, s.slots(tenantID, month).OrderBy(firestore.DocumentID, firestore.Asc))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.CalendarSlot, 0, len(snaps))
	for _, snap := range snaps {
		var slot model.CalendarSlot
		if err := snap.DataTo(&slot); err != nil {
			return nil, err
		}
		slot.TenantID = tenantID
		slot.ID = snap.Ref.ID
		out = append(out, slot)
	}
	return out, nil
}

// AddPoints uses server side increments, so concurrent awards never lose
// points.
func (s *Store) AddPoints(ctx context.Context, award model.PointsAward) error {
	defer prometheus.TrackDBOperation("add_points")(time.Now())

	return translate(s.set(ctx, s.weekPoints(award.TenantID, award.Week).Doc(award.UID), map[string]any{
		"points":       firestore.Increment(award.Points),
		"streak":       firestore.Increment(1),
		"lastAction":   award.Action,
		"lastActionAt": award.At,
		"updatedAt":    award.At,
	}, firestore.MergeAll))
}

func (s *Store) ListPoints(ctx context.Context, tenantID, week string) ([]model.WeeklyPoints, error) {
	defer prometheus.TrackDBOperation("list_points")(time.Now())

	snaps, err := s.query(ctx, s.weekPoints(tenantID, week).OrderBy("points", firestore.Desc))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.WeeklyPoints, 0, len(snaps))
	for _, snap := range snaps {
		var row model.WeeklyPoints
		if err := snap.DataTo(&row); err != nil {
			return nil, err
		}
		row.TenantID = tenantID
		row.Week = week
		row.UID = snap.Ref.ID
		out = append(out, row)
	}
	return out, nil
}
