package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/service"
)

const (
	identityKey   = "identity"
	tenantIDKey   = "tenant_id"
	membershipKey = "membership"
)

// Identity returns the verified caller set by the identity gate.
func Identity(c echo.Context) *identity.Identity {
	id, _ := c.Get(identityKey).(*identity.Identity)
	return id
}

// TenantID returns the tenant resolved by the membership guard.
func TenantID(c echo.Context) string {
	id, _ := c.Get(tenantIDKey).(string)
	return id
}

// Membership returns the caller's membership in the resolved tenant.
func Membership(c echo.Context) *model.Membership {
	m, _ := c.Get(membershipKey).(*model.Membership)
	return m
}

// Role returns the caller's role in the resolved tenant, or "".
func Role(c echo.Context) model.Role {
	if m := Membership(c); m != nil {
		return m.Role
	}
	return ""
}

// Actor returns the caller as seen by the services.
func Actor(c echo.Context) service.Actor {
	actor := service.Actor{Role: Role(c)}
	if id := Identity(c); id != nil {
		actor.UID = id.UID
		actor.Email = id.Email
	}
	return actor
}
