package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) CreateProfile(ctx context.Context, p *model.Profile) error {
	defer prometheus.TrackDBOperation("create_profile")(time.Now())
	return translate(s.conn(ctx).Create(p).Error)
}

func (s *Store) GetProfile(ctx context.Context, tenantID, id string) (*model.Profile, error) {
	defer prometheus.TrackDBOperation("get_profile")(time.Now())

	var p model.Profile
	if err := s.conn(ctx).First(&p, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context, tenantID string) ([]model.Profile, error) {
	defer prometheus.TrackDBOperation("list_profiles")(time.Now())

	var profiles []model.Profile
	if err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("created_at").Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	return profiles, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) error {
	defer prometheus.TrackDBOperation("save_profile")(time.Now())

	// Struct updates go through the json serializer of the list columns.
	res := s.conn(ctx).Model(&model.Profile{}).
		Where("tenant_id = ? AND id = ?", p.TenantID, p.ID).
		Select("*").Omit("id", "tenant_id", "created_at", "created_by").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTemplate(ctx context.Context, t *model.Template) error {
	defer prometheus.TrackDBOperation("create_template")(time.Now())
	return translate(s.conn(ctx).Create(t).Error)
}

func (s *Store) GetTemplate(ctx context.Context, tenantID, id string) (*model.Template, error) {
	defer prometheus.TrackDBOperation("get_template")(time.Now())

	var t model.Template
	if err := s.conn(ctx).First(&t, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) ListTemplates(ctx context.Context, tenantID string) ([]model.Template, error) {
	defer prometheus.TrackDBOperation("list_templates")(time.Now())

	var templates []model.Template
	if err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("created_at").Find(&templates).Error; err != nil {
		return nil, translate(err)
	}
	return templates, nil
}

func (s *Store) SaveSlot(ctx context.Context, slot *model.CalendarSlot) error {
	defer prometheus.TrackDBOperation("save_slot")(time.Now())

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(slot).Error
	return translate(err)
}

func (s *Store) ListSlots(ctx context.Context, tenantID, month string) ([]model.CalendarSlot, error) {
	defer prometheus.TrackDBOperation("list_slots")(time.Now())

	var slots []model.CalendarSlot
	err := s.conn(ctx).Where("tenant_id = ? AND month = ?", tenantID, month).Order("id").Find(&slots).Error
	if err != nil {
		return nil, translate(err)
	}
	return slots, nil
}

func (s *Store) AddPoints(ctx context.Context, award model.PointsAward) error {
	defer prometheus.TrackDBOperation("add_points")(time.Now())

	row := model.WeeklyPoints{
		TenantID:     award.TenantID,
		Week:         award.Week,
		UID:          award.UID,
		Points:       award.Points,
		Streak:       1,
		LastAction:   award.Action,
		LastActionAt: award.At,
		UpdatedAt:    award.At,
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "week"}, {Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]any{
			"points":         gorm.Expr("member_points.points + ?", award.Points),
			"streak":         gorm.Expr("member_points.streak + 1"),
			"last_action":    award.Action,
			"last_action_at": award.At,
			"updated_at":     award.At,
		}),
	}).Create(&row).Error
	return translate(err)
}

func (s *Store) ListPoints(ctx context.Context, tenantID, week string) ([]model.WeeklyPoints, error) {
	defer prometheus.TrackDBOperation("list_points")(time.Now())

	var rows []model.WeeklyPoints
	err := s.conn(ctx).Where("tenant_id = ? AND week = ?", tenantID, week).
		Order("points DESC").Order("uid").Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
