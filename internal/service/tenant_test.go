package service

import (
	"context"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/model"
)

func TestSessionDefaults(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.tenants.Session(ctx, ident("u1", "ana@example.com"))
	is.NoErr(err)
	is.Equal(sess.UID, "u1")
	is.Equal(sess.Email, "ana@example.com")
	is.True(sess.TenantID == nil)
	is.True(sess.Role == nil)

	u, err := f.store.GetUser(ctx, "u1")
	is.NoErr(err)
	is.Equal(u.Email, "ana@example.com")
}

func TestCreateTenant(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	id := ident("u1", "Ana@Example.com")

	res, err := f.tenants.CreateTenant(ctx, id, "  Acme Corp ")
	is.NoErr(err)
	is.True(res.Created)

	tenant, err := f.store.GetTenant(ctx, res.TenantID)
	is.NoErr(err)
	is.Equal(tenant.Name, "Acme Corp")
	is.Equal(tenant.CreatedBy, "u1")

	m, err := f.store.GetMembershipByUID(ctx, res.TenantID, "u1")
	is.NoErr(err)
	is.Equal(m.ID, f.keyer.Key("ana@example.com", ""))
	is.Equal(m.Role, model.RoleAdmin)
	is.Equal(m.Status, model.StatusActive)

	sess, err := f.tenants.Session(ctx, id)
	is.NoErr(err)
	is.Equal(*sess.TenantID, res.TenantID)
	is.Equal(*sess.Role, model.RoleAdmin)

	is.Equal(f.pub.types(), []events.Type{events.TenantCreated})
}

func TestCreateTenantShortName(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	_, err := f.tenants.CreateTenant(context.Background(), ident("u1", "a@b.com"), " ab ")
	is.True(hasCode(err, apperr.CodeInvalidName))
	is.Equal(apperr.Status(err), 400)
}

func TestCreateTenantAlreadyAssigned(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	first := f.createTenant(t, "u1", "a@b.com", "Acme")

	_, err := f.tenants.CreateTenant(context.Background(), ident("u1", "a@b.com"), "Second")
	is.True(hasCode(err, apperr.CodeTenantAssigned))
	is.Equal(apperr.Status(err), 409)

	e, ok := apperr.As(err)
	is.True(ok)
	is.Equal(e.Data["tenantId"], first)
}

func TestCreateTenantRelinksCreator(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	first := f.createTenant(t, "u1", "a@b.com", "Acme")

	// the user loses its pointer but the tenant it created remains
	is.NoErr(f.store.ClearUserTenant(ctx, "u1", first))

	res, err := f.tenants.CreateTenant(ctx, ident("u1", "a@b.com"), "Another")
	is.NoErr(err)
	is.True(!res.Created)
	is.Equal(res.TenantID, first)

	u, err := f.store.GetUser(ctx, "u1")
	is.NoErr(err)
	is.Equal(u.TenantID, first)
}

func TestCreateTenantAfterRemovalCreatesNew(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	first := f.createTenant(t, "owner", "owner@example.com", "Acme")
	f.join(t, first, "bea", "bea@example.com", model.RoleAdmin)

	bea := Actor{UID: "bea", Email: "bea@example.com", Role: model.RoleAdmin}
	is.NoErr(f.members.Remove(ctx, bea, first, f.keyer.Key("owner@example.com", "")))

	res, err := f.tenants.CreateTenant(ctx, ident("owner", "owner@example.com"), "Owner New Co")
	is.NoErr(err)
	is.True(res.Created)
	is.True(res.TenantID != first)

	sess, err := f.tenants.Session(ctx, ident("owner", "owner@example.com"))
	is.NoErr(err)
	is.Equal(*sess.TenantID, res.TenantID)
	is.Equal(*sess.Role, model.RoleAdmin)

	_, err = f.members.Enforce(ctx, res.TenantID, ident("owner", "owner@example.com"))
	is.NoErr(err)
	_, err = f.members.Enforce(ctx, first, ident("owner", "owner@example.com"))
	is.True(hasCode(err, apperr.CodeAccessDenied))
}

func TestCreateTenantRelinkKeepsMemberRole(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	first := f.createTenant(t, "owner", "owner@example.com", "Acme")
	f.join(t, first, "bea", "bea@example.com", model.RoleAdmin)

	bea := Actor{UID: "bea", Email: "bea@example.com", Role: model.RoleAdmin}
	_, err := f.members.UpdateRole(ctx, bea, first, f.keyer.Key("owner@example.com", ""), model.RoleMember)
	is.NoErr(err)
	is.NoErr(f.store.ClearUserTenant(ctx, "owner", first))

	res, err := f.tenants.CreateTenant(ctx, ident("owner", "owner@example.com"), "Another")
	is.NoErr(err)
	is.True(!res.Created)
	is.Equal(res.TenantID, first)

	u, err := f.store.GetUser(ctx, "owner")
	is.NoErr(err)
	is.Equal(u.Role, model.RoleMember)
}

func TestCreateTenantConcurrentCallsCreateOne(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	id := ident("u1", "a@b.com")

	const calls = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		created int
		errs    []error
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.tenants.CreateTenant(ctx, id, "Acme")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ids[res.TenantID] = true
				if res.Created {
					created++
				}
				return
			}
			if e, ok := apperr.As(err); ok && e.Code == apperr.CodeTenantAssigned {
				ids[e.Data["tenantId"].(string)] = true
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	is.Equal(len(errs), 0)
	is.Equal(created, 1)
	is.Equal(len(ids), 1)

	for tenantID := range ids {
		members, err := f.store.ListMemberships(ctx, tenantID)
		is.NoErr(err)
		is.Equal(len(members), 1)

		owned, err := f.store.FindTenantByCreator(ctx, "u1")
		is.NoErr(err)
		is.Equal(owned.ID, tenantID)
	}
}

func TestUpdateTenant(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "u1", "a@b.com", "Acme")
	actor := Actor{UID: "u1", Role: model.RoleAdmin}

	_, err := f.tenants.UpdateTenant(ctx, actor, tenantID, model.TenantUpdate{})
	is.True(hasCode(err, apperr.CodeNoUpdates))

	short := "x"
	_, err = f.tenants.UpdateTenant(ctx, actor, tenantID, model.TenantUpdate{Name: &short})
	is.True(hasCode(err, apperr.CodeInvalidName))

	name, logo := "Acme Labs", "https://cdn.example.com/logo.png"
	tenant, err := f.tenants.UpdateTenant(ctx, actor, tenantID, model.TenantUpdate{Name: &name, LogoURL: &logo})
	is.NoErr(err)
	is.Equal(tenant.Name, name)
	is.Equal(tenant.UpdatedBy, "u1")

	stored, err := f.tenants.GetTenant(ctx, tenantID)
	is.NoErr(err)
	is.Equal(stored.LogoURL, logo)

	_, err = f.tenants.UpdateTenant(ctx, actor, "ahau_missing_000000", model.TenantUpdate{Name: &name})
	is.True(hasCode(err, apperr.CodeTenantNotFound))
}

func TestSettings(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "u1", "a@b.com", "Acme")
	actor := Actor{UID: "u1", Role: model.RoleAdmin}

	s, err := f.tenants.GetSettings(ctx, tenantID)
	is.NoErr(err)
	is.Equal(s.TenantName, "")
	is.Equal(s.PrimaryTopic, "")

	_, err = f.tenants.SaveSettings(ctx, actor, tenantID, SettingsInput{TenantName: "Acme"})
	is.True(hasCode(err, apperr.CodeMissingFields))

	_, err = f.tenants.SaveSettings(ctx, actor, tenantID, SettingsInput{
		TenantName:   "Acme",
		PrimaryTopic: "cloud costs",
		About:        "We cut bills.",
	})
	is.NoErr(err)

	s, err = f.tenants.GetSettings(ctx, tenantID)
	is.NoErr(err)
	is.Equal(s.PrimaryTopic, "cloud costs")
	is.Equal(s.UpdatedBy, "u1")
}
