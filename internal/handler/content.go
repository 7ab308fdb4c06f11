package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/service"
)

type generateRequest struct {
	TenantID   string `json:"tenantId"`
	Prompt     string `json:"prompt" validate:"max=2000"`
	Topic      string `json:"topic" validate:"max=255"`
	ProfileID  string `json:"profileId"`
	TemplateID string `json:"templateId"`
}

// GenerateContent drafts post text with the tenant's settings as context.
func (h *Handler) GenerateContent(c echo.Context) error {
	var req generateRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	out, err := h.content.Generate(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), service.GenerateInput{
		Prompt:     req.Prompt,
		Topic:      req.Topic,
		ProfileID:  req.ProfileID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}
