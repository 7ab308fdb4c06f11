package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

const (
	minTenantNameLen = 3
	maxTenantNameLen = 100
)

// TenantService owns users, tenants and tenant settings.
type TenantService struct {
	deps
	namespace string
	keyer     *MemberKeyer
}

func NewTenantService(st store.Store, pub events.Publisher, keyer *MemberKeyer, namespace string, log *zap.Logger) *TenantService {
	return &TenantService{
		deps:      newDeps(st, pub, log),
		namespace: namespace,
		keyer:     keyer,
	}
}

// Session is the caller's view of their own record. Unset fields render as
// null.
type Session struct {
	UID         string      `json:"uid"`
	Email       string      `json:"email"`
	DisplayName *string     `json:"displayName"`
	TenantID    *string     `json:"tenantId"`
	Role        *model.Role `json:"role"`
}

// CreateResult reports the tenant a create call resolved to. Created is
// false when an earlier tenant of the caller was re-linked.
type CreateResult struct {
	TenantID string `json:"tenantId"`
	Created  bool   `json:"-"`
}

// EnsureUser returns the caller's user record, creating it on first sight
// and refreshing email and display name from the identity.
func (s *TenantService) EnsureUser(ctx context.Context, id *identity.Identity) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id.UID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user = &model.User{UID: id.UID, Email: id.Email, DisplayName: id.Name}
		if err := s.store.SaveUser(ctx, user); err != nil {
			return nil, apperr.Internal(err)
		}
		s.logger(ctx).Info("User created", zap.String("uid", id.UID))
		return user, nil
	case err != nil:
		return nil, apperr.Internal(err)
	}

	changed := false
	if id.Email != "" && id.Email != user.Email {
		user.Email = id.Email
		changed = true
	}
	if id.Name != "" && id.Name != user.DisplayName {
		user.DisplayName = id.Name
		changed = true
	}
	if changed {
		if err := s.store.SaveUser(ctx, user); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return user, nil
}

// Session ensures the caller's user record and returns it.
func (s *TenantService) Session(ctx context.Context, id *identity.Identity) (*Session, error) {
	user, err := s.EnsureUser(ctx, id)
	if err != nil {
		return nil, err
	}

	sess := &Session{UID: user.UID, Email: id.Email}
	if sess.Email == "" {
		sess.Email = user.Email
	}
	if user.DisplayName != "" {
		sess.DisplayName = &user.DisplayName
	}
	if user.TenantID != "" {
		sess.TenantID = &user.TenantID
	}
	if user.Role != "" {
		sess.Role = &user.Role
	}
	return sess, nil
}

// CreateTenant creates a tenant owned by the caller, its admin membership and
// the caller's tenant pointer in one transaction.
//
// A caller already linked to a tenant gets a tenant/already-assigned conflict
// carrying that tenant id. A caller who created a tenant earlier, is no
// longer linked, but is still an active member of it is re-linked to it
// instead of getting a second one. The caller's user row is locked for the
// transaction so concurrent creates from one caller cannot both succeed.
func (s *TenantService) CreateTenant(ctx context.Context, id *identity.Identity, name string) (result *CreateResult, err error) {
	defer func() { prometheus.RecordTenantOperation("create", err) }()

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minTenantNameLen || n > maxTenantNameLen {
		return nil, apperr.Validation(apperr.CodeInvalidName, "name must be between 3 and 100 characters")
	}

	tenantID, err := NewTenantID(s.namespace, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		user, err := tx.GetUserForUpdate(ctx, id.UID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = &model.User{UID: id.UID, Email: id.Email, DisplayName: id.Name}
		case err != nil:
			return err
		}
		if user.HasTenant() {
			return apperr.Conflict(apperr.CodeTenantAssigned, "user already belongs to a tenant").
				WithData("tenantId", user.TenantID)
		}

		relinked, err := relink(ctx, tx, user)
		if err != nil {
			return err
		}
		if relinked {
			result = &CreateResult{TenantID: user.TenantID}
			return tx.SaveUser(ctx, user)
		}

		now := s.now()
		uid := id.UID
		tenant := &model.Tenant{
			ID:        tenantID,
			Name:      name,
			CreatedAt: now,
			CreatedBy: uid,
			UpdatedAt: now,
		}
		member := &model.Membership{
			TenantID:   tenantID,
			ID:         s.keyer.Key(id.Email, uid),
			UID:        &uid,
			Email:      NormalizeEmail(id.Email),
			Role:       model.RoleAdmin,
			Status:     model.StatusActive,
			AddedAt:    now,
			AcceptedAt: &now,
			UpdatedAt:  now,
		}
		if err := tx.CreateTenant(ctx, tenant); err != nil {
			return err
		}
		if err := tx.CreateMembership(ctx, member); err != nil {
			return err
		}
		user.TenantID = tenantID
		user.Role = model.RoleAdmin
		if err := tx.SaveUser(ctx, user); err != nil {
			return err
		}
		result = &CreateResult{TenantID: tenantID, Created: true}
		return nil
	})
	if err != nil {
		return nil, classify(err, "", "")
	}

	log := s.logger(ctx)
	if result.Created {
		log.Info("Tenant created", zap.String("tenant_id", result.TenantID), zap.String("owner", id.UID))
		s.publish(ctx, events.New(events.TenantCreated, result.TenantID, id.UID, result.TenantID,
			map[string]any{"name": name}))
	} else {
		log.Info("User re-linked to existing tenant", zap.String("tenant_id", result.TenantID), zap.String("uid", id.UID))
	}
	return result, nil
}

// GetTenant returns a tenant by id.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (*model.Tenant, error) {
	tenant, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, classify(err, apperr.CodeTenantNotFound, "tenant not found")
	}
	return tenant, nil
}

// UpdateTenant applies name and logo changes made by an admin.
func (s *TenantService) UpdateTenant(ctx context.Context, actor Actor, tenantID string, update model.TenantUpdate) (tenant *model.Tenant, err error) {
	defer func() { prometheus.RecordTenantOperation("update", err) }()

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if n := utf8.RuneCountInString(name); n < minTenantNameLen || n > maxTenantNameLen {
			return nil, apperr.Validation(apperr.CodeInvalidName, "name must be between 3 and 100 characters")
		}
		update.Name = &name
	}
	if update.LogoURL != nil {
		logo := strings.TrimSpace(*update.LogoURL)
		update.LogoURL = &logo
	}
	if update.Empty() {
		return nil, apperr.Validation(apperr.CodeNoUpdates, "no valid updates provided")
	}

	tenant, err = s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, classify(err, apperr.CodeTenantNotFound, "tenant not found")
	}
	changes := map[string]any{}
	if update.Name != nil {
		tenant.Name = *update.Name
		changes["name"] = tenant.Name
	}
	if update.LogoURL != nil {
		tenant.LogoURL = *update.LogoURL
		changes["logoUrl"] = tenant.LogoURL
	}
	tenant.UpdatedAt = s.now()
	tenant.UpdatedBy = actor.UID

	if err := s.store.UpdateTenant(ctx, tenant); err != nil {
		return nil, classify(err, apperr.CodeTenantNotFound, "tenant not found")
	}

	s.logger(ctx).Info("Tenant updated", zap.String("tenant_id", tenantID), zap.String("updated_by", actor.UID))
	s.publish(ctx, events.New(events.TenantUpdated, tenantID, actor.UID, tenantID, changes))
	return tenant, nil
}

// SettingsInput is the editable part of the tenant settings document.
type SettingsInput struct {
	TenantName   string
	LogoURL      string
	PrimaryTopic string
	About        string
}

// GetSettings returns the tenant's settings, or empty defaults when none have
// been saved.
func (s *TenantService) GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	settings, err := s.store.GetSettings(ctx, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return &model.TenantSettings{TenantID: tenantID}, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return settings, nil
}

// SaveSettings replaces the tenant's settings. tenantName and primaryTopic are
// required.
func (s *TenantService) SaveSettings(ctx context.Context, actor Actor, tenantID string, in SettingsInput) (*model.TenantSettings, error) {
	settings := &model.TenantSettings{
		TenantID:     tenantID,
		TenantName:   strings.TrimSpace(in.TenantName),
		LogoURL:      strings.TrimSpace(in.LogoURL),
		PrimaryTopic: strings.TrimSpace(in.PrimaryTopic),
		About:        strings.TrimSpace(in.About),
		UpdatedAt:    s.now(),
		UpdatedBy:    actor.UID,
	}
	if settings.TenantName == "" || settings.PrimaryTopic == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, "tenantName and primaryTopic are required")
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger(ctx).Info("Tenant settings updated", zap.String("tenant_id", tenantID), zap.String("updated_by", actor.UID))
	return settings, nil
}

// relink points user back at the tenant they created when they are still an
// active member of it. A creator who was removed or suspended is not
// re-linked and gets a new tenant instead.
func relink(ctx context.Context, tx store.Store, user *model.User) (bool, error) {
	existing, err := tx.FindTenantByCreator(ctx, user.UID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m, err := tx.GetMembershipByUID(ctx, existing.ID, user.UID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if m.Status != model.StatusActive {
		return false, nil
	}
	user.TenantID = existing.ID
	user.Role = m.Role
	return true, nil
}
