// Package notify sends invitation emails.
package notify

import "context"

// Invite is an invitation to join a tenant.
type Invite struct {
	TenantID   string
	TenantName string
	Email      string
	Role       string
	InvitedBy  string
}

// Mailer delivers invitation emails.
type Mailer interface {
	SendInvite(ctx context.Context, invite Invite) error
}

// NopMailer sends nothing.
type NopMailer struct{}

func (NopMailer) SendInvite(context.Context, Invite) error { return nil }
