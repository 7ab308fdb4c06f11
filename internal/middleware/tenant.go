package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/pkg/logger"
)

// maxPeekBody bounds how much of a JSON body is read to find tenantId.
const maxPeekBody = 1 << 20

// Enforcer checks that an identity may act within a tenant.
type Enforcer interface {
	Enforce(ctx context.Context, tenantID string, id *identity.Identity) (*model.Membership, error)
}

// TenantMember resolves the tenant from the path, the JSON body or the query
// string, in that order, and admits only its active or invited members.
func TenantMember(enforcer Enforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			id := Identity(c)
			if id == nil {
				return apperr.Auth(apperr.CodeMissingBearer, "missing bearer token")
			}

			tenantID := resolveTenantID(c)
			if tenantID == "" {
				return apperr.Validation(apperr.CodeMissingTenantID, "tenantId is required")
			}

			m, err := enforcer.Enforce(c.Request().Context(), tenantID, id)
			if err != nil {
				log.Warn("Tenant access denied",
					zap.String("tenant_id", tenantID),
					zap.String("uid", id.UID),
					zap.Error(err))
				return err
			}

			c.Set(tenantIDKey, tenantID)
			c.Set(membershipKey, m)
			return next(c)
		}
	}
}

// RequireAdmin rejects callers whose membership is not admin. It must run
// after TenantMember.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Role(c) != model.RoleAdmin {
			logger.FromContext(c).Warn("Admin role required",
				zap.String("tenant_id", TenantID(c)),
				zap.String("role", string(Role(c))))
			return apperr.Forbidden(apperr.CodeAdminRequired, "admin role required")
		}
		return next(c)
	}
}

func resolveTenantID(c echo.Context) string {
	if id := strings.TrimSpace(c.Param("tenantId")); id != "" {
		return id
	}
	if id := bodyTenantID(c); id != "" {
		return id
	}
	return strings.TrimSpace(c.QueryParam("tenantId"))
}

// bodyTenantID peeks at a JSON body and restores it for the handler.
func bodyTenantID(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 ||
		!strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	rest := req.Body
	body, err := io.ReadAll(io.LimitReader(rest, maxPeekBody))
	req.Body = readCloser{io.MultiReader(bytes.NewReader(body), rest), rest}
	if err != nil {
		return ""
	}

	var payload struct {
		TenantID string `json:"tenantId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.TenantID)
}

type readCloser struct {
	io.Reader
	io.Closer
}
