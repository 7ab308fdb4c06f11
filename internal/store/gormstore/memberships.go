package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateMembership(ctx context.Context, m *model.Membership) error {
	defer prometheus.TrackDBOperation("create_membership")(time.Now())
	return translate(s.conn(ctx).Create(m).Error)
}

func (s *Store) GetMembership(ctx context.Context, tenantID, memberID string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("get_membership")(time.Now())

	var m model.Membership
	if err := s.conn(ctx).First(&m, "tenant_id = ? AND id = ?", tenantID, memberID).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) GetMembershipByUID(ctx context.Context, tenantID, uid string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("get_membership_by_uid")(time.Now())

	var m model.Membership
	if err := s.conn(ctx).First(&m, "tenant_id = ? AND uid = ?", tenantID, uid).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) FindInvitation(ctx context.Context, tenantID, email string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("find_invitation")(time.Now())

	var m model.Membership
	err := s.conn(ctx).
		Where("tenant_id = ? AND email = ? AND status = ?", tenantID, email, model.StatusInvited).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) ListMemberships(ctx context.Context, tenantID string) ([]model.Membership, error) {
	defer prometheus.TrackDBOperation("list_memberships")(time.Now())

	var members []model.Membership
	err := s.conn(ctx).
		Where("tenant_id = ?", tenantID).
		Order("added_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, translate(err)
	}
	return members, nil
}

func (s *Store) UpsertInvitation(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("upsert_invitation")(time.Now())

	// Only an invited record may be refreshed. Active or suspended records are
	// left untouched and the statement affects no rows.
	res := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "invited_by", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "memberships", Name: "status"}, Value: model.StatusInvited},
		}},
	}).Create(m)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrConflict
	}
	return s.GetMembership(ctx, m.TenantID, m.ID)
}

func (s *Store) SaveMembership(ctx context.Context, m *model.Membership) error {
	defer prometheus.TrackDBOperation("save_membership")(time.Now())

	res := s.conn(ctx).Model(&model.Membership{}).
		Where("tenant_id = ? AND id = ?", m.TenantID, m.ID).
		Updates(map[string]any{
			"uid":         m.UID,
			"email":       m.Email,
			"role":        m.Role,
			"status":      m.Status,
			"invited_by":  m.InvitedBy,
			"accepted_at": m.AcceptedAt,
			"updated_at":  m.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMembership(ctx context.Context, tenantID, memberID string) error {
	defer prometheus.TrackDBOperation("delete_membership")(time.Now())

	res := s.conn(ctx).Where("tenant_id = ? AND id = ?", tenantID, memberID).Delete(&model.Membership{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountActiveAdmins(ctx context.Context, tenantID string) (int, error) {
	defer prometheus.TrackDBOperation("count_active_admins")(time.Now())

	var n int64
	err := s.conn(ctx).Model(&model.Membership{}).
		Where("tenant_id = ? AND role = ? AND status = ?", tenantID, model.RoleAdmin, model.StatusActive).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}
