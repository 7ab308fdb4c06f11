package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/service"
	"github.com/ldflores83/falconcore/pkg/validator"
)

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the API on top of the services.
type Handler struct {
	tenants   *service.TenantService
	members   *service.MembershipService
	drafts    *service.DraftService
	content   *service.ContentService
	profiles  *service.ProfileService
	templates *service.TemplateService
	calendar  *service.CalendarService
	points    *service.PointsService
	db        Pinger
}

// Services groups the dependencies of Handler.
type Services struct {
	Tenants   *service.TenantService
	Members   *service.MembershipService
	Drafts    *service.DraftService
	Content   *service.ContentService
	Profiles  *service.ProfileService
	Templates *service.TemplateService
	Calendar  *service.CalendarService
	Points    *service.PointsService
	DB        Pinger
}

func New(s Services) *Handler {
	return &Handler{
		tenants:   s.Tenants,
		members:   s.Members,
		drafts:    s.Drafts,
		content:   s.Content,
		profiles:  s.Profiles,
		templates: s.Templates,
		calendar:  s.Calendar,
		points:    s.Points,
		db:        s.DB,
	}
}

// bind decodes and validates req. codes maps a JSON field name to the error
// code reported when that field fails validation.
func bind(c echo.Context, req any, codes map[string]string) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		var verr *validator.Errors
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				if code, ok := codes[f.Field]; ok {
					return apperr.Validation(code, verr.Error())
				}
			}
			return apperr.Validation(apperr.CodeInvalidRequest, verr.Error())
		}
		return err
	}
	return nil
}
