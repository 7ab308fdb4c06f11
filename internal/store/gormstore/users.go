package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

func (s *Store) GetUser(ctx context.Context, uid string) (*model.User, error) {
	defer prometheus.TrackDBOperation("get_user")(time.Now())

	var user model.User
	if err := s.conn(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserForUpdate claims the user row before reading it so that a missing
// user is locked too. The claim is undone when the transaction rolls back.
func (s *Store) GetUserForUpdate(ctx context.Context, uid string) (*model.User, error) {
	defer prometheus.TrackDBOperation("get_user_for_update")(time.Now())

	db := s.conn(ctx)
	now := time.Now().UTC()
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.User{UID: uid, CreatedAt: now, UpdatedAt: now})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	claimed := res.RowsAffected == 1

	q := db
	if db.Dialector.Name() == "postgres" {
		// SQLite has no row locks; its single writer serializes instead.
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user model.User
	if err := q.First(&user, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	if claimed {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("save_user")(time.Now())

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "tenant_id", "role", "updated_at"}),
	}).Create(user).Error
	return translate(err)
}

func (s *Store) ClearUserTenant(ctx context.Context, uid, tenantID string) error {
	defer prometheus.TrackDBOperation("clear_user_tenant")(time.Now())

	err := s.conn(ctx).Model(&model.User{}).
		Where("uid = ? AND tenant_id = ?", uid, tenantID).
		Updates(map[string]any{
			"tenant_id":  "",
			"role":       "",
			"updated_at": time.Now().UTC(),
		}).Error
	return translate(err)
}
