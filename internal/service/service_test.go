package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matryer/is"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/notify"
	"github.com/ldflores83/falconcore/internal/store/gormstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type chanMailer chan notify.Invite

func (m chanMailer) SendInvite(_ context.Context, invite notify.Invite) error {
	m <- invite
	return nil
}

type fixture struct {
	store    *gormstore.Store
	pub      *recordingPublisher
	mail     chanMailer
	tenants  *TenantService
	members  *MembershipService
	drafts   *DraftService
	profiles *ProfileService
	calendar *CalendarService
	points   *PointsService
	keyer    *MemberKeyer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	is := is.New(t)

	db, err := gormstore.Open(config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "service.db"),
		LogLevel: logger.Silent,
	})
	is.NoErr(err)
	is.NoErr(gormstore.Migrate(db))
	st := gormstore.New(db)
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{
		store: st,
		pub:   &recordingPublisher{},
		mail:  make(chanMailer, 4),
		keyer: NewMemberKeyer("test-salt"),
	}
	log := zap.NewNop()
	f.tenants = NewTenantService(st, f.pub, f.keyer, "ahau", log)
	f.members = NewMembershipService(st, f.pub, f.mail, f.keyer, 0, log)
	f.points = NewPointsService(st, log)
	f.drafts = NewDraftService(st, f.points, log)
	f.profiles = NewProfileService(st, log)
	f.calendar = NewCalendarService(st, f.points, log)
	return f
}

func ident(uid, email string) *identity.Identity {
	return &identity.Identity{UID: uid, Email: email, Name: uid}
}

// createTenant makes a tenant owned by uid and returns its id.
func (f *fixture) createTenant(t *testing.T, uid, email, name string) string {
	t.Helper()
	res, err := f.tenants.CreateTenant(context.Background(), ident(uid, email), name)
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return res.TenantID
}

// join invites email into tenantID as role and accepts on behalf of uid.
func (f *fixture) join(t *testing.T, tenantID, uid, email string, role model.Role) *model.Membership {
	t.Helper()
	ctx := context.Background()
	admin := Actor{UID: "owner", Role: model.RoleAdmin}
	if _, err := f.members.Invite(ctx, admin, tenantID, email, role); err != nil {
		t.Fatalf("invite: %v", err)
	}
	<-f.mail
	m, err := f.members.Accept(ctx, ident(uid, email), tenantID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return m
}

func hasCode(err error, code string) bool {
	return apperr.Is(err, code)
}
