package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)

// Role is a member's role within a tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole returns the Role named by s or an error for anything else.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidRole, s)
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// UnmarshalJSON rejects unknown roles at the request boundary.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MembershipStatus is the lifecycle state of a membership.
//
//	invited --accept--> active <--admin--> suspended
type MembershipStatus string

const (
	StatusInvited   MembershipStatus = "invited"
	StatusActive    MembershipStatus = "active"
	StatusSuspended MembershipStatus = "suspended"
)

// ParseMembershipStatus returns the status named by s.
func ParseMembershipStatus(s string) (MembershipStatus, error) {
	switch st := MembershipStatus(s); st {
	case StatusInvited, StatusActive, StatusSuspended:
		return st, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
}

// UnmarshalJSON rejects unknown statuses at the request boundary.
func (s *MembershipStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseMembershipStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// GrantsAccess reports whether a membership in this status may use tenant
// scoped endpoints.
func (s MembershipStatus) GrantsAccess() bool {
	return s == StatusActive || s == StatusInvited
}

// DraftStatus is the advisory editorial state of a draft. Transitions between
// statuses are not ordered.
type DraftStatus string

const (
	DraftIdea      DraftStatus = "idea"
	DraftDraft     DraftStatus = "draft"
	DraftReviewed  DraftStatus = "reviewed"
	DraftApproved  DraftStatus = "approved"
	DraftRejected  DraftStatus = "rejected"
	DraftPublished DraftStatus = "published"
)

// ParseDraftStatus returns the draft status named by s.
func ParseDraftStatus(s string) (DraftStatus, error) {
	switch st := DraftStatus(s); st {
	case DraftIdea, DraftDraft, DraftReviewed, DraftApproved, DraftRejected, DraftPublished:
		return st, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
}

// IsReviewOutcome reports whether s can be set through a review.
func (s DraftStatus) IsReviewOutcome() bool {
	return s == DraftReviewed || s == DraftApproved || s == DraftRejected
}

// UnmarshalJSON rejects unknown draft statuses at the request boundary.
func (s *DraftStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseDraftStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
