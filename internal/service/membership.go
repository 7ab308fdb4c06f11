package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/events"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/notify"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

// MembershipService guards tenant access and manages the member roster.
type MembershipService struct {
	deps
	keyer        *MemberKeyer
	mailer       notify.Mailer
	emailTimeout time.Duration
}

func NewMembershipService(st store.Store, pub events.Publisher, mailer notify.Mailer, keyer *MemberKeyer, emailTimeout time.Duration, log *zap.Logger) *MembershipService {
	if mailer == nil {
		mailer = notify.NopMailer{}
	}
	if emailTimeout <= 0 {
		emailTimeout = 10 * time.Second
	}
	return &MembershipService{
		deps:         newDeps(st, pub, log),
		keyer:        keyer,
		mailer:       mailer,
		emailTimeout: emailTimeout,
	}
}

// Enforce returns the caller's membership in tenantID. Only active and invited
// members pass.
func (s *MembershipService) Enforce(ctx context.Context, tenantID string, id *identity.Identity) (*model.Membership, error) {
	if tenantID == "" {
		return nil, apperr.Validation(apperr.CodeMissingTenantID, "tenantId is required")
	}

	m, err := s.store.GetMembershipByUID(ctx, tenantID, id.UID)
	if errors.Is(err, store.ErrNotFound) && id.Email != "" {
		// An invitation not yet accepted has no uid and is keyed by email.
		m, err = s.store.GetMembership(ctx, tenantID, s.keyer.Key(id.Email, id.UID))
		if err == nil && m.UID != nil {
			err = store.ErrNotFound
		}
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.Forbidden(apperr.CodeAccessDenied, "access to this tenant is denied")
	case err != nil:
		return nil, apperr.Internal(err)
	}

	if !m.Status.GrantsAccess() {
		return nil, apperr.Forbidden(apperr.CodeInactiveMember, "membership is not active")
	}
	return m, nil
}

// Invite records an invitation for email and sends the invitation email in
// the background. Re-inviting a pending address refreshes the invitation.
func (s *MembershipService) Invite(ctx context.Context, actor Actor, tenantID, email string, role model.Role) (m *model.Membership, err error) {
	defer func() { prometheus.RecordMembershipOperation("invite", err) }()

	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation(apperr.CodeInvalidEmail, "email is required")
	}
	if !role.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidRole, "role must be admin or member")
	}

	tenant, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, classify(err, apperr.CodeTenantNotFound, "tenant not found")
	}

	now := s.now()
	m, err = s.store.UpsertInvitation(ctx, &model.Membership{
		TenantID:  tenantID,
		ID:        s.keyer.Key(email, ""),
		Email:     email,
		Role:      role,
		Status:    model.StatusInvited,
		InvitedBy: actor.UID,
		AddedAt:   now,
		UpdatedAt: now,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, apperr.Conflict(apperr.CodeMemberExists, "a member with this email already exists")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	log := s.logger(ctx)
	log.Info("Member invited",
		zap.String("tenant_id", tenantID),
		zap.String("member_id", m.ID),
		zap.String("role", string(role)),
		zap.String("invited_by", actor.UID))
	s.publish(ctx, events.New(events.MemberInvited, tenantID, actor.UID, m.ID,
		map[string]any{"email": email, "role": string(role)}))

	invite := notify.Invite{
		TenantID:   tenantID,
		TenantName: tenant.Name,
		Email:      email,
		Role:       string(role),
		InvitedBy:  actor.Email,
	}
	go s.sendInvite(context.WithoutCancel(ctx), invite, log)

	return m, nil
}

func (s *MembershipService) sendInvite(ctx context.Context, invite notify.Invite, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	if err := s.mailer.SendInvite(ctx, invite); err != nil {
		log.Warn("Failed to send invitation email",
			zap.String("tenant_id", invite.TenantID),
			zap.Error(err))
	}
}

// List returns every membership of the tenant.
func (s *MembershipService) List(ctx context.Context, tenantID string) ([]model.Membership, error) {
	members, err := s.store.ListMemberships(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return members, nil
}

// Accept promotes the caller's pending invitation to an active membership in
// place. The caller's user record is pointed at the tenant only if it has no
// tenant yet.
func (s *MembershipService) Accept(ctx context.Context, id *identity.Identity, tenantID string) (m *model.Membership, err error) {
	defer func() { prometheus.RecordMembershipOperation("accept", err) }()

	if tenantID == "" {
		return nil, apperr.Validation(apperr.CodeMissingTenantID, "tenantId is required")
	}
	email := NormalizeEmail(id.Email)
	if email == "" {
		return nil, apperr.Validation(apperr.CodeInvalidEmail, "an email address is required to accept an invitation")
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetMembershipByUID(ctx, tenantID, id.UID); err == nil {
			return apperr.Conflict(apperr.CodeAlreadyMember, "already a member of this tenant")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		invite, err := tx.FindInvitation(ctx, tenantID, email)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(apperr.CodeInviteNotFound, "no pending invitation for this email")
		}
		if err != nil {
			return err
		}

		user, err := tx.GetUser(ctx, id.UID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = &model.User{UID: id.UID, Email: id.Email, DisplayName: id.Name}
		case err != nil:
			return err
		}

		now := s.now()
		uid := id.UID
		invite.UID = &uid
		invite.Status = model.StatusActive
		invite.AcceptedAt = &now
		invite.UpdatedAt = now
		if err := tx.SaveMembership(ctx, invite); err != nil {
			return err
		}
		if !user.HasTenant() {
			user.TenantID = tenantID
			user.Role = invite.Role
			if err := tx.SaveUser(ctx, user); err != nil {
				return err
			}
		}
		m = invite
		return nil
	})
	if err != nil {
		return nil, classify(err, "", "")
	}

	s.logger(ctx).Info("Invitation accepted", zap.String("tenant_id", tenantID), zap.String("uid", id.UID))
	s.publish(ctx, events.New(events.MemberAccepted, tenantID, id.UID, m.ID,
		map[string]any{"role": string(m.Role)}))
	return m, nil
}

// UpdateRole changes a member's role. The last active admin cannot be demoted.
func (s *MembershipService) UpdateRole(ctx context.Context, actor Actor, tenantID, memberID string, role model.Role) (*model.Membership, error) {
	return s.Update(ctx, actor, tenantID, memberID, model.MembershipUpdate{Role: &role})
}

// UpdateStatus moves an accepted member between active and suspended.
func (s *MembershipService) UpdateStatus(ctx context.Context, actor Actor, tenantID, memberID string, status model.MembershipStatus) (*model.Membership, error) {
	return s.Update(ctx, actor, tenantID, memberID, model.MembershipUpdate{Status: &status})
}

// Update applies a role and/or status change to a member in one transaction,
// so either every requested change is stored or none is.
//
// Status may only move accepted members between active and suspended; pending
// invitations reject any status change. The tenant must keep at least one
// active admin.
func (s *MembershipService) Update(ctx context.Context, actor Actor, tenantID, memberID string, update model.MembershipUpdate) (m *model.Membership, err error) {
	defer func() { prometheus.RecordMembershipOperation("update", err) }()

	if update.Empty() {
		return nil, apperr.Validation(apperr.CodeNoUpdates, "role or status is required")
	}
	if update.Role != nil && !update.Role.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidRole, "role must be admin or member")
	}
	if update.Status != nil && *update.Status != model.StatusActive && *update.Status != model.StatusSuspended {
		return nil, apperr.Validation(apperr.CodeInvalidStatus, "status must be active or suspended")
	}

	var before model.Membership
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		m, err = tx.GetMembership(ctx, tenantID, memberID)
		if err != nil {
			return err
		}
		before = *m
		if update.Status != nil && m.Status == model.StatusInvited {
			return apperr.Conflict(apperr.CodeInvalidChange, "pending invitations cannot change status")
		}

		next := *m
		if update.Role != nil {
			next.Role = *update.Role
		}
		if update.Status != nil {
			next.Status = *update.Status
		}
		if next.Role == m.Role && next.Status == m.Status {
			return nil
		}
		if m.IsActiveAdmin() && !next.IsActiveAdmin() {
			if err := guardLastAdmin(ctx, tx, tenantID); err != nil {
				return err
			}
		}

		var user *model.User
		if uid := m.UIDValue(); uid != "" && next.Role != m.Role {
			user, err = tx.GetUser(ctx, uid)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		next.UpdatedAt = s.now()
		if err := tx.SaveMembership(ctx, &next); err != nil {
			return err
		}
		*m = next
		if user != nil && user.TenantID == tenantID {
			user.Role = next.Role
			return tx.SaveUser(ctx, user)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.CodeMemberNotFound, "member not found")
	}

	log := s.logger(ctx).With(
		zap.String("tenant_id", tenantID),
		zap.String("member_id", memberID),
		zap.String("changed_by", actor.UID))
	if before.Role != m.Role {
		log.Info("Member role changed", zap.String("from", string(before.Role)), zap.String("to", string(m.Role)))
		s.publish(ctx, events.New(events.MemberRoleChanged, tenantID, actor.UID, memberID,
			map[string]any{"from": string(before.Role), "to": string(m.Role)}))
	}
	if before.Status != m.Status {
		log.Info("Member status changed", zap.String("from", string(before.Status)), zap.String("to", string(m.Status)))
		s.publish(ctx, events.New(events.MemberStatusChanged, tenantID, actor.UID, memberID,
			map[string]any{"from": string(before.Status), "to": string(m.Status)}))
	}
	return m, nil
}

// Remove deletes a membership and clears the member's tenant pointer when it
// points at tenantID.
func (s *MembershipService) Remove(ctx context.Context, actor Actor, tenantID, memberID string) (err error) {
	defer func() { prometheus.RecordMembershipOperation("remove", err) }()

	var removed *model.Membership
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		m, err := tx.GetMembership(ctx, tenantID, memberID)
		if err != nil {
			return err
		}
		if m.IsActiveAdmin() {
			if err := guardLastAdmin(ctx, tx, tenantID); err != nil {
				return err
			}
		}
		if uid := m.UIDValue(); uid != "" {
			if err := tx.ClearUserTenant(ctx, uid, tenantID); err != nil {
				return err
			}
		}
		removed = m
		return tx.DeleteMembership(ctx, tenantID, memberID)
	})
	if err != nil {
		return classify(err, apperr.CodeMemberNotFound, "member not found")
	}

	s.logger(ctx).Info("Member removed",
		zap.String("tenant_id", tenantID),
		zap.String("member_id", memberID),
		zap.String("removed_by", actor.UID))
	s.publish(ctx, events.New(events.MemberRemoved, tenantID, actor.UID, memberID,
		map[string]any{"email": removed.Email, "role": string(removed.Role)}))
	return nil
}

func guardLastAdmin(ctx context.Context, tx store.Store, tenantID string) error {
	n, err := tx.CountActiveAdmins(ctx, tenantID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperr.Conflict(apperr.CodeLastAdmin, "a tenant must keep at least one active admin")
	}
	return nil
}
