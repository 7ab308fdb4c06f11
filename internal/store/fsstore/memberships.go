package fsstore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func decodeMembership(tenantID string, snap *firestore.DocumentSnapshot) (*model.Membership, error) {
	var m model.Membership
	if err := snap.DataTo(&m); err != nil {
		return nil, err
	}
	m.TenantID = tenantID
	m.ID = snap.Ref.ID
	return &m, nil
}

func (s *Store) first(ctx context.Context, tenantID string, q firestore.Query) (*model.Membership, error) {
	snaps, err := s.query(ctx, q.Limit(1))
	if err != nil {
		return nil, translate(err)
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	return decodeMembership(tenantID, snaps[0])
}

func (s *Store) CreateMembership(ctx context.Context, m *model.Membership) error {
	defer prometheus.TrackDBOperation("create_membership")(time.Now())
	return translate(s.create(ctx, s.members(m.TenantID).Doc(m.ID), m))
}

func (s *Store) GetMembership(ctx context.Context, tenantID, memberID string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("get_membership")(time.Now())

	snap, err := s.get(ctx, s.members(tenantID).Doc(memberID))
	if err != nil {
		return nil, translate(err)
	}
	return decodeMembership(tenantID, snap)
}

func (s *Store) GetMembershipByUID(ctx context.Context, tenantID, uid string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("get_membership_by_uid")(time.Now())
	return s.first(ctx, tenantID, s.members(tenantID).Where("uid", "==", uid))
}

func (s *Store) FindInvitation(ctx context.Context, tenantID, email string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("find_invitation")(time.Now())

	q := s.members(tenantID).
		Where("email", "==", email).
		Where("status", "==", string(model.StatusInvited))
	return s.first(ctx, tenantID, q)
}

func (s *Store) ListMemberships(ctx context.Context, tenantID string) ([]model.Membership, error) {
	defer prometheus.TrackDBOperation("list_memberships")(time.Now())

	snaps, err := s.query(ctx, s.members(tenantID).OrderBy("addedAt", firestore.Asc))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]model.Membership, 0, len(snaps))
	for _, snap := range snaps {
		m, err := decodeMembership(tenantID, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *Store) UpsertInvitation(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("upsert_invitation")(time.Now())

	var out *model.Membership
	err := s.Transaction(ctx, func(tx store.Store) error {
		fs := tx.(*Store)
		ref := fs.members(m.TenantID).Doc(m.ID)

		snap, err := fs.get(ctx, ref)
		switch {
		case err != nil && errors.Is(translate(err), store.ErrNotFound):
			if err := fs.create(ctx, ref, m); err != nil {
				return translate(err)
			}
			created := *m
			out = &created
			return nil
		case err != nil:
			return translate(err)
		}

		existing, err := decodeMembership(m.TenantID, snap)
		if err != nil {
			return err
		}
		if existing.Status != model.StatusInvited {
			return store.ErrConflict
		}
		existing.Role = m.Role
		existing.InvitedBy = m.InvitedBy
		existing.UpdatedAt = m.UpdatedAt
		out = existing
		return translate(fs.update(ctx, ref, []firestore.Update{
			{Path: "role", Value: string(m.Role)},
			{Path: "invitedBy", Value: m.InvitedBy},
			{Path: "updatedAt", Value: m.UpdatedAt},
		}))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SaveMembership(ctx context.Context, m *model.Membership) error {
	defer prometheus.TrackDBOperation("save_membership")(time.Now())

	var uid any
	if m.UID != nil {
		uid = *m.UID
	}
	var acceptedAt any
	if m.AcceptedAt != nil {
		acceptedAt = *m.AcceptedAt
	}
	return translate(s.update(ctx, s.members(m.TenantID).Doc(m.ID), []firestore.Update{
		{Path: "uid", Value: uid},
		{Path: "email", Value: m.Email},
		{Path: "role", Value: string(m.Role)},
		{Path: "status", Value: string(m.Status)},
		{Path: "invitedBy", Value: m.InvitedBy},
		{Path: "acceptedAt", Value: acceptedAt},
		{Path: "updatedAt", Value: m.UpdatedAt},
	}))
}

func (s *Store) DeleteMembership(ctx context.Context, tenantID, memberID string) error {
	defer prometheus.TrackDBOperation("delete_membership")(time.Now())
	return translate(s.delete(ctx, s.members(tenantID).Doc(memberID)))
}

func (s *Store) CountActiveAdmins(ctx context.Context, tenantID string) (int, error) {
	defer prometheus.TrackDBOperation("count_active_admins")(time.Now())

	q := s.members(tenantID).
		Where("role", "==", string(model.RoleAdmin)).
		Where("status", "==", string(model.StatusActive))
	snaps, err := s.query(ctx, q)
	if err != nil {
		return 0, translate(err)
	}
	return len(snaps), nil
}
