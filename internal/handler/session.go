package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/middleware"
)

// VerifySession returns the caller's profile, creating the user on first
// sight.
func (h *Handler) VerifySession(c echo.Context) error {
	sess, err := h.tenants.Session(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, sess)
}
