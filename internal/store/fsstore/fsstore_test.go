package fsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
)

// These tests run against the Firestore emulator:
//
//	gcloud emulators firestore start --host-port=localhost:8681
//	FIRESTORE_EMULATOR_HOST=localhost:8681 go test ./internal/store/fsstore
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	is := is.New(t)

	s, err := Open(context.Background(), "ahau-test")
	is.NoErr(err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func uniqueTenant() string {
	return fmt.Sprintf("ahau_test_%d", time.Now().UnixNano())
}

func TestFirestoreInvitationFlow(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := uniqueTenant()

	now := time.Now().UTC()
	_, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: tenantID, ID: "k1", Email: "a@b.com",
		Role: model.RoleMember, Status: model.StatusInvited, AddedAt: now, UpdatedAt: now,
	})
	is.NoErr(err)

	again, err := s.UpsertInvitation(ctx, &model.Membership{
		TenantID: tenantID, ID: "k1", Email: "a@b.com",
		Role: model.RoleAdmin, Status: model.StatusInvited, AddedAt: now, UpdatedAt: now,
	})
	is.NoErr(err)
	is.Equal(again.Role, model.RoleAdmin)

	all, err := s.ListMemberships(ctx, tenantID)
	is.NoErr(err)
	is.Equal(len(all), 1)

	inv, err := s.FindInvitation(ctx, tenantID, "a@b.com")
	is.NoErr(err)
	uid := "u1"
	inv.UID = &uid
	inv.Status = model.StatusActive
	is.NoErr(s.SaveMembership(ctx, inv))

	m, err := s.GetMembershipByUID(ctx, tenantID, "u1")
	is.NoErr(err)
	is.Equal(m.ID, "k1")

	_, err = s.UpsertInvitation(ctx, &model.Membership{
		TenantID: tenantID, ID: "k1", Email: "a@b.com",
		Role: model.RoleMember, Status: model.StatusInvited, AddedAt: now, UpdatedAt: now,
	})
	is.True(errors.Is(err, store.ErrConflict))

	is.NoErr(s.DeleteMembership(ctx, tenantID, "k1"))
	is.True(errors.Is(s.DeleteMembership(ctx, tenantID, "k1"), store.ErrNotFound))
}

func TestFirestoreTransactionAtomic(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := uniqueTenant()
	uid := "creator-" + tenantID

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUser(ctx, uid); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unexpected user lookup result: %v", err)
		}
		if err := tx.CreateTenant(ctx, &model.Tenant{ID: tenantID, Name: "T", CreatedBy: uid, CreatedAt: time.Now().UTC()}); err != nil {
			return err
		}
		return boom
	})
	is.True(errors.Is(err, boom))

	_, err = s.GetTenant(ctx, tenantID)
	is.True(errors.Is(err, store.ErrNotFound))
}
