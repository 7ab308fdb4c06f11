package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendConfig configures the Resend mailer.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// InviteURL is the frontend page that completes an invitation. The
	// tenant id is appended as a query parameter.
	InviteURL string
}

// ResendMailer implements Mailer using Resend.
type ResendMailer struct {
	client *resend.Client
	config ResendConfig
	log    *zap.Logger
}

func NewResendMailer(config ResendConfig, log *zap.Logger) (*ResendMailer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendMailer{
		client: resend.NewClient(config.APIKey),
		config: config,
		log:    log,
	}, nil
}

func (m *ResendMailer) SendInvite(ctx context.Context, invite Invite) error {
	link := m.config.InviteURL
	if u, err := url.Parse(link); err == nil {
		q := u.Query()
		q.Set("tenantId", invite.TenantID)
		u.RawQuery = q.Encode()
		link = u.String()
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail),
		To:      []string{invite.Email},
		Subject: fmt.Sprintf("You have been invited to %s", displayName(invite)),
		Html:    InviteEmailTemplate(displayName(invite), invite.Role, link),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	m.log.Info("Invite email sent",
		zap.String("tenant_id", invite.TenantID),
		zap.String("email_id", sent.Id))
	return nil
}

func displayName(invite Invite) string {
	if invite.TenantName != "" {
		return invite.TenantName
	}
	return invite.TenantID
}
