package model

import "time"

// Membership links an identity to a tenant. ID is the member key derived from
// the member's email (or uid when there is none), so a tenant holds exactly one
// record per identity. Invitations are promoted to active in place.
type Membership struct {
	TenantID   string           `json:"tenantId" gorm:"primaryKey;type:varchar(80);uniqueIndex:idx_memberships_tenant_uid,priority:1" firestore:"-"`
	ID         string           `json:"id" gorm:"primaryKey;type:varchar(64)" firestore:"-"`
	UID        *string          `json:"uid,omitempty" gorm:"type:varchar(128);uniqueIndex:idx_memberships_tenant_uid,priority:2" firestore:"uid"`
	Email      string           `json:"email" gorm:"type:varchar(255);index" firestore:"email"`
	Role       Role             `json:"role" gorm:"type:varchar(20);not null" firestore:"role"`
	Status     MembershipStatus `json:"status" gorm:"type:varchar(20);not null;index" firestore:"status"`
	InvitedBy  string           `json:"invitedBy,omitempty" gorm:"type:varchar(128)" firestore:"invitedBy,omitempty"`
	AddedAt    time.Time        `json:"addedAt" firestore:"addedAt"`
	AcceptedAt *time.Time       `json:"acceptedAt,omitempty" firestore:"acceptedAt,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt" firestore:"updatedAt"`
}

// IsActiveAdmin reports whether the membership counts toward the tenant's
// admin quorum.
func (m *Membership) IsActiveAdmin() bool {
	return m.Role == RoleAdmin && m.Status == StatusActive
}

// UIDValue returns the member uid or "" for a pending invitation.
func (m *Membership) UIDValue() string {
	if m.UID == nil {
		return ""
	}
	return *m.UID
}

// MembershipUpdate holds the admin editable membership fields. Nil fields are
// left unchanged.
type MembershipUpdate struct {
	Role   *Role
	Status *MembershipStatus
}

// Empty reports whether the update changes nothing.
func (u MembershipUpdate) Empty() bool {
	return u.Role == nil && u.Status == nil
}
