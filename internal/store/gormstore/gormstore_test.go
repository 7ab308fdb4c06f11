package gormstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"gorm.io/gorm/logger"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	is := is.New(t)

	db, err := Open(config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "ahau.db"),
		LogLevel: logger.Silent,
	})
	is.NoErr(err)
	is.NoErr(Migrate(db))

	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestUserUpsertAndClear(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "u1")
	is.True(errors.Is(err, store.ErrNotFound))

	is.NoErr(s.SaveUser(ctx, &model.User{UID: "u1", Email: "a@b.com"}))
	is.NoErr(s.SaveUser(ctx, &model.User{UID: "u1", Email: "a@b.com", TenantID: "t1", Role: model.RoleAdmin}))

	u, err := s.GetUser(ctx, "u1")
	is.NoErr(err)
	is.Equal(u.TenantID, "t1")
	is.Equal(u.Role, model.RoleAdmin)

	// pointer at another tenant is left alone
	is.NoErr(s.ClearUserTenant(ctx, "u1", "t2"))
	u, _ = s.GetUser(ctx, "u1")
	is.Equal(u.TenantID, "t1")

	is.NoErr(s.ClearUserTenant(ctx, "u1", "t1"))
	u, _ = s.GetUser(ctx, "u1")
	is.Equal(u.TenantID, "")
	is.Equal(u.Role, model.Role(""))
}

func TestTenantCRUD(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	is.NoErr(s.CreateTenant(ctx, &model.Tenant{ID: "ahau_a_000001", Name: "A", CreatedBy: "u1", CreatedAt: now}))
	is.NoErr(s.CreateTenant(ctx, &model.Tenant{ID: "ahau_b_000002", Name: "B", CreatedBy: "u1", CreatedAt: now.Add(time.Second)}))

	err := s.CreateTenant(ctx, &model.Tenant{ID: "ahau_a_000001", Name: "dup", CreatedBy: "u2"})
	is.True(errors.Is(err, store.ErrConflict)) // duplicate id

	found, err := s.FindTenantByCreator(ctx, "u1")
	is.NoErr(err)
	is.Equal(found.ID, "ahau_a_000001") // oldest first

	_, err = s.FindTenantByCreator(ctx, "nobody")
	is.True(errors.Is(err, store.ErrNotFound))

	found.Name = "Renamed"
	found.LogoURL = "https://cdn/logo.png"
	found.UpdatedBy = "u1"
	is.NoErr(s.UpdateTenant(ctx, found))

	got, err := s.GetTenant(ctx, "ahau_a_000001")
	is.NoErr(err)
	is.Equal(got.Name, "Renamed")
	is.Equal(got.LogoURL, "https://cdn/logo.png")

	err = s.UpdateTenant(ctx, &model.Tenant{ID: "missing", Name: "x"})
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestUpsertInvitationIsIdempotent(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	added := time.Now().UTC().Add(-time.Hour)
	first, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: "t1", ID: "k1", Email: "a@b.com",
		Role: model.RoleMember, Status: model.StatusInvited,
		InvitedBy: "admin1", AddedAt: added, UpdatedAt: added,
	})
	is.NoErr(err)
	is.Equal(first.Role, model.RoleMember)

	second, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: "t1", ID: "k1", Email: "a@b.com",
		Role: model.RoleAdmin, Status: model.StatusInvited,
		InvitedBy: "admin2", AddedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	})
	is.NoErr(err)
	is.Equal(second.Role, model.RoleAdmin)
	is.Equal(second.InvitedBy, "admin2")
	is.True(second.AddedAt.Equal(first.AddedAt)) // addedAt kept

	all, err := s.ListMemberships(ctx, "t1")
	is.NoErr(err)
	is.Equal(len(all), 1)

	inv, err := s.FindInvitation(ctx, "t1", "a@b.com")
	is.NoErr(err)
	is.Equal(inv.ID, "k1")
}

func TestUpsertInvitationRejectsActiveRecord(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	is.NoErr(s.CreateMembership(ctx, &model.Membership{
		TenantID: "t1", ID: "k1", UID: ptr("u1"), Email: "a@b.com",
		Role: model.RoleAdmin, Status: model.StatusActive, AddedAt: now, UpdatedAt: now,
	}))

	_, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: "t1", ID: "k1", Email: "a@b.com",
		Role: model.RoleMember, Status: model.StatusInvited, AddedAt: now, UpdatedAt: now,
	})
	is.True(errors.Is(err, store.ErrConflict))

	m, err := s.GetMembership(ctx, "t1", "k1")
	is.NoErr(err)
	is.Equal(m.Role, model.RoleAdmin) // untouched
	is.Equal(m.Status, model.StatusActive)
}

func TestMembershipLifecycle(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	is.NoErr(s.CreateMembership(ctx, &model.Membership{
		TenantID: "t1", ID: "admin", UID: ptr("u-admin"), Email: "admin@b.com",
		Role: model.RoleAdmin, Status: model.StatusActive, AddedAt: now, UpdatedAt: now,
	}))
	inv, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: "t1", ID: "k2", Email: "m@b.com",
		Role: model.RoleMember, Status: model.StatusInvited, AddedAt: now, UpdatedAt: now,
	})
	is.NoErr(err)

	n, err := s.CountActiveAdmins(ctx, "t1")
	is.NoErr(err)
	is.Equal(n, 1)

	accepted := time.Now().UTC()
	inv.UID = ptr("u2")
	inv.Status = model.StatusActive
	inv.AcceptedAt = &accepted
	is.NoErr(s.SaveMembership(ctx, inv))

	byUID, err := s.GetMembershipByUID(ctx, "t1", "u2")
	is.NoErr(err)
	is.Equal(byUID.ID, "k2")
	is.Equal(byUID.Status, model.StatusActive)
	is.True(byUID.AcceptedAt != nil)

	_, err = s.FindInvitation(ctx, "t1", "m@b.com")
	is.True(errors.Is(err, store.ErrNotFound)) // no longer pending

	is.NoErr(s.DeleteMembership(ctx, "t1", "k2"))
	is.True(errors.Is(s.DeleteMembership(ctx, "t1", "k2"), store.ErrNotFound))
	is.True(errors.Is(s.SaveMembership(ctx, inv), store.ErrNotFound))
}

func TestTransactionRollsBack(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateTenant(ctx, &model.Tenant{ID: "t1", Name: "T", CreatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.SaveUser(ctx, &model.User{UID: "u1", TenantID: "t1"}); err != nil {
			return err
		}
		return boom
	})
	is.True(errors.Is(err, boom))

	_, err = s.GetTenant(ctx, "t1")
	is.True(errors.Is(err, store.ErrNotFound))
	_, err = s.GetUser(ctx, "u1")
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestGetUserForUpdate(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	// a missing user reads as not found and the claim is dropped on rollback
	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.Store) error {
		_, err := tx.GetUserForUpdate(ctx, "u1")
		is.True(errors.Is(err, store.ErrNotFound))
		return boom
	})
	is.True(errors.Is(err, boom))
	_, err = s.GetUser(ctx, "u1")
	is.True(errors.Is(err, store.ErrNotFound))

	// a committed claim is filled in by SaveUser in the same transaction
	err = s.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUserForUpdate(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.SaveUser(ctx, &model.User{UID: "u1", Email: "a@b.com", TenantID: "t1", Role: model.RoleAdmin})
	})
	is.NoErr(err)

	err = s.Transaction(ctx, func(tx store.Store) error {
		u, err := tx.GetUserForUpdate(ctx, "u1")
		if err != nil {
			return err
		}
		is.Equal(u.Email, "a@b.com")
		is.Equal(u.TenantID, "t1")
		return nil
	})
	is.NoErr(err)
}

func TestDraftsNewestFirst(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"d1", "d2", "d3"} {
		is.NoErr(s.CreateDraft(ctx, &model.Draft{
			ID: id, TenantID: "t1", Title: id, Status: model.DraftIdea,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	is.NoErr(s.CreateDraft(ctx, &model.Draft{ID: "other", TenantID: "t2", Title: "x", Status: model.DraftIdea}))

	drafts, err := s.ListDrafts(ctx, "t1", 2)
	is.NoErr(err)
	is.Equal(len(drafts), 2)
	is.Equal(drafts[0].ID, "d3")
	is.Equal(drafts[1].ID, "d2")

	_, err = s.GetDraft(ctx, "t2", "d1")
	is.True(errors.Is(err, store.ErrNotFound)) // tenant scoped

	d, err := s.GetDraft(ctx, "t1", "d1")
	is.NoErr(err)
	d.Status = model.DraftApproved
	d.ReviewedBy = "admin"
	is.NoErr(s.SaveDraft(ctx, d))

	d, _ = s.GetDraft(ctx, "t1", "d1")
	is.Equal(d.Status, model.DraftApproved)
	is.Equal(d.ReviewedBy, "admin")
}

func TestSettingsUpsert(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSettings(ctx, "t1")
	is.True(errors.Is(err, store.ErrNotFound))

	is.NoErr(s.SaveSettings(ctx, &model.TenantSettings{TenantID: "t1", TenantName: "One", PrimaryTopic: "go"}))
	is.NoErr(s.SaveSettings(ctx, &model.TenantSettings{TenantID: "t1", TenantName: "One", PrimaryTopic: "rust"}))

	got, err := s.GetSettings(ctx, "t1")
	is.NoErr(err)
	is.Equal(got.PrimaryTopic, "rust")
}
