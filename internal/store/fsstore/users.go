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

func (s *Store) GetUser(ctx context.Context, uid string) (*model.User, error) {
	defer prometheus.TrackDBOperation("get_user")(time.Now())

	snap, err := s.get(ctx, s.userRef(uid))
	if err != nil {
		return nil, translate(err)
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, err
	}
	user.UID = snap.Ref.ID
	return &user, nil
}

// GetUserForUpdate reads the user through the transaction. Firestore tracks
// the read, missing documents included, and retries the transaction when
// another one writes the document first.
func (s *Store) GetUserForUpdate(ctx context.Context, uid string) (*model.User, error) {
	return s.GetUser(ctx, uid)
}

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("save_user")(time.Now())

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	return translate(s.set(ctx, s.userRef(user.UID), map[string]any{
		"email":       user.Email,
		"displayName": user.DisplayName,
		"tenantId":    user.TenantID,
		"role":        string(user.Role),
		"createdAt":   user.CreatedAt,
		"updatedAt":   user.UpdatedAt,
	}, firestore.MergeAll))
}

func (s *Store) ClearUserTenant(ctx context.Context, uid, tenantID string) error {
	defer prometheus.TrackDBOperation("clear_user_tenant")(time.Now())

	user, err := s.GetUser(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.TenantID != tenantID {
		return nil
	}
	return translate(s.update(ctx, s.userRef(uid), []firestore.Update{
		{Path: "tenantId", Value: ""},
		{Path: "role", Value: ""},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}))
}
