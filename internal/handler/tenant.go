package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/service"
)

type createTenantRequest struct {
	Name string `json:"name"`
}

type updateTenantRequest struct {
	TenantID string  `json:"tenantId"`
	Name     *string `json:"name"`
	LogoURL  *string `json:"logoUrl" validate:"omitempty,url"`
}

type settingsRequest struct {
	TenantName   string `json:"tenantName" validate:"max=100"`
	LogoURL      string `json:"logoUrl" validate:"omitempty,url"`
	PrimaryTopic string `json:"primaryTopic" validate:"max=200"`
	About        string `json:"about" validate:"max=2000"`
}

// CreateTenant creates a tenant owned by the caller.
func (h *Handler) CreateTenant(c echo.Context) error {
	var req createTenantRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	res, err := h.tenants.CreateTenant(c.Request().Context(), middleware.Identity(c), req.Name)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *Handler) GetTenant(c echo.Context) error {
	tenant, err := h.tenants.GetTenant(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, tenant)
}

// UpdateTenant changes the tenant's name or logo.
func (h *Handler) UpdateTenant(c echo.Context) error {
	var req updateTenantRequest
	if err := bind(c, &req, map[string]string{"logoUrl": apperr.CodeInvalidRequest}); err != nil {
		return err
	}

	tenant, err := h.tenants.UpdateTenant(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c),
		model.TenantUpdate{Name: req.Name, LogoURL: req.LogoURL})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, tenant)
}

func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.tenants.GetSettings(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, settings)
}

func (h *Handler) SaveSettings(c echo.Context) error {
	var req settingsRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	settings, err := h.tenants.SaveSettings(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c),
		service.SettingsInput{
			TenantName:   req.TenantName,
			LogoURL:      req.LogoURL,
			PrimaryTopic: req.PrimaryTopic,
			About:        req.About,
		})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, settings)
}
