package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/pkg/logger"
	"github.com/ldflores83/falconcore/prometheus"
)

// IdentityGate verifies the bearer token on every request and stores the
// resulting identity in the context.
func IdentityGate(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				log.Warn("Missing or malformed Authorization header")
				prometheus.RecordAuthError("missing_bearer")
				return apperr.Auth(apperr.CodeMissingBearer, "missing bearer token")
			}

			id, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				log.Warn("Invalid ID token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperr.Auth(apperr.CodeInvalidToken, "invalid or expired token").Wrap(err)
			}

			c.Set(identityKey, id)
			log.Debug("Request authenticated", zap.String("uid", id.UID))

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
