// Package store defines persistence for users, tenants and tenant scoped
// records. Implementations live in sub-packages.
package store

import (
	"context"
	"errors"

	"github.com/ldflores83/falconcore/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a write would violate a uniqueness or
	// state precondition.
	ErrConflict = errors.New("store: conflict")
)

type UserStore interface {
	GetUser(ctx context.Context, uid string) (*model.User, error)
	// GetUserForUpdate is GetUser for use inside Transaction. Concurrent
	// transactions that call it for the same uid are serialized, including
	// when the user does not exist yet.
	GetUserForUpdate(ctx context.Context, uid string) (*model.User, error)
	// SaveUser upserts the user, merging non-key fields.
	SaveUser(ctx context.Context, user *model.User) error
	// ClearUserTenant unsets the user's tenant pointer if it points at tenantID.
	ClearUserTenant(ctx context.Context, uid, tenantID string) error
}

type TenantStore interface {
	CreateTenant(ctx context.Context, tenant *model.Tenant) error
	GetTenant(ctx context.Context, id string) (*model.Tenant, error)
	// FindTenantByCreator returns the oldest tenant created by uid.
	FindTenantByCreator(ctx context.Context, uid string) (*model.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *model.Tenant) error
}

type MembershipStore interface {
	CreateMembership(ctx context.Context, m *model.Membership) error
	GetMembership(ctx context.Context, tenantID, memberID string) (*model.Membership, error)
	GetMembershipByUID(ctx context.Context, tenantID, uid string) (*model.Membership, error)
	// FindInvitation returns the invited record for email in tenantID.
	FindInvitation(ctx context.Context, tenantID, email string) (*model.Membership, error)
	ListMemberships(ctx context.Context, tenantID string) ([]model.Membership, error)
	// UpsertInvitation creates m, or refreshes role, inviter and updatedAt of
	// an existing invited record with the same key. It returns ErrConflict
	// when the existing record is no longer an invitation.
	UpsertInvitation(ctx context.Context, m *model.Membership) (*model.Membership, error)
	SaveMembership(ctx context.Context, m *model.Membership) error
	DeleteMembership(ctx context.Context, tenantID, memberID string) error
	CountActiveAdmins(ctx context.Context, tenantID string) (int, error)
}

type DraftStore interface {
	CreateDraft(ctx context.Context, d *model.Draft) error
	GetDraft(ctx context.Context, tenantID, id string) (*model.Draft, error)
	// ListDrafts returns up to limit drafts, newest first.
	ListDrafts(ctx context.Context, tenantID string, limit int) ([]model.Draft, error)
	SaveDraft(ctx context.Context, d *model.Draft) error
}

type SettingsStore interface {
	// GetSettings returns ErrNotFound when the tenant has no settings yet.
	GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	SaveSettings(ctx context.Context, s *model.TenantSettings) error
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, p *model.Profile) error
	GetProfile(ctx context.Context, tenantID, id string) (*model.Profile, error)
	ListProfiles(ctx context.Context, tenantID string) ([]model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error
}

type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *model.Template) error
	GetTemplate(ctx context.Context, tenantID, id string) (*model.Template, error)
	ListTemplates(ctx context.Context, tenantID string) ([]model.Template, error)
}

type CalendarStore interface {
	// SaveSlot creates or replaces the slot with the same id.
	SaveSlot(ctx context.Context, slot *model.CalendarSlot) error
	// ListSlots returns the slots of month ("2006-01") in date and time order.
	ListSlots(ctx context.Context, tenantID, month string) ([]model.CalendarSlot, error)
}

type PointsStore interface {
	// AddPoints atomically adds the award to the member's weekly score and
	// bumps the streak.
	AddPoints(ctx context.Context, award model.PointsAward) error
	// ListPoints returns the week's scores, highest first.
	ListPoints(ctx context.Context, tenantID, week string) ([]model.WeeklyPoints, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	TenantStore
	MembershipStore
	DraftStore
	SettingsStore
	ProfileStore
	TemplateStore
	CalendarStore
	PointsStore

	// Transaction runs fn against a transactional view of the store. All
	// writes made through tx commit together or not at all.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
