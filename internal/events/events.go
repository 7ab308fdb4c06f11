// Package events publishes membership and tenant audit events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an audit event.
type Type string

const (
	TenantCreated       Type = "tenant.created"
	TenantUpdated       Type = "tenant.updated"
	MemberInvited       Type = "member.invited"
	MemberAccepted      Type = "member.accepted"
	MemberRoleChanged   Type = "member.role_changed"
	MemberStatusChanged Type = "member.status_changed"
	MemberRemoved       Type = "member.removed"
)

// Event is one audit record. Subject is the member id or tenant id the event
// is about.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	TenantID   string         `json:"tenantId"`
	ActorUID   string         `json:"actorUid"`
	Subject    string         `json:"subject,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// New builds an event with a fresh id and timestamp.
func New(t Type, tenantID, actorUID, subject string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		TenantID:   tenantID,
		ActorUID:   actorUID,
		Subject:    subject,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers audit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
