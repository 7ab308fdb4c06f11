package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/service"
)

type createProfileRequest struct {
	DisplayName string      `json:"displayName" validate:"max=255"`
	Role        string      `json:"role" validate:"max=255"`
	AvatarURL   string      `json:"avatarUrl" validate:"omitempty,url"`
	Tone        *model.Tone `json:"tone"`
	Dos         []string    `json:"dos"`
	Donts       []string    `json:"donts"`
	Samples     []string    `json:"samples"`
}

type updateProfileRequest struct {
	DisplayName *string     `json:"displayName" validate:"omitempty,max=255"`
	Role        *string     `json:"role" validate:"omitempty,max=255"`
	AvatarURL   *string     `json:"avatarUrl" validate:"omitempty,url"`
	Tone        *model.Tone `json:"tone"`
	Dos         []string    `json:"dos"`
	Donts       []string    `json:"donts"`
	Samples     []string    `json:"samples"`
}

type createTemplateRequest struct {
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Blocks      []string `json:"blocks"`
}

func (h *Handler) ListProfiles(c echo.Context) error {
	profiles, err := h.profiles.List(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, profiles)
}

func (h *Handler) GetProfile(c echo.Context) error {
	p, err := h.profiles.Get(c.Request().Context(), middleware.TenantID(c), c.Param("profileId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *Handler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	p, err := h.profiles.Create(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), service.ProfileInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		AvatarURL:   req.AvatarURL,
		Tone:        req.Tone,
		Dos:         req.Dos,
		Donts:       req.Donts,
		Samples:     req.Samples,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

// UpdateProfile applies the fields present in the body. Absent fields are
// left unchanged.
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	p, err := h.profiles.Update(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), c.Param("profileId"), model.ProfileUpdate{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		AvatarURL:   req.AvatarURL,
		Tone:        req.Tone,
		Dos:         req.Dos,
		Donts:       req.Donts,
		Samples:     req.Samples,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *Handler) ListTemplates(c echo.Context) error {
	templates, err := h.templates.List(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, templates)
}

func (h *Handler) CreateTemplate(c echo.Context) error {
	var req createTemplateRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	t, err := h.templates.Create(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), req.Name, req.Description, req.Blocks)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, t)
}
