package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/pkg/logger"
	"github.com/ldflores83/falconcore/pkg/validator"
	"github.com/ldflores83/falconcore/prometheus"
)

// APIPrefix is the mount point of the API routes.
const APIPrefix = "/api/ahau"

// RouterConfig configures Register.
type RouterConfig struct {
	Verifier identity.Verifier
	// ContentRate is the sustained content generation rate per caller, in
	// requests per second. Zero disables the limit.
	ContentRate  float64
	ContentBurst int
}

// NewEcho returns an echo instance with the error envelope, validation and
// the global middleware installed.
func NewEcho(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = validator.NewValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	return e
}

// Register mounts the public and API routes on e.
func Register(e *echo.Echo, h *Handler, cfg RouterConfig) {
	// Public routes - no authentication required
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	api := e.Group(APIPrefix, middleware.IdentityGate(cfg.Verifier))
	member := middleware.TenantMember(h.members)
	admin := middleware.RequireAdmin

	api.POST("/session/verify", h.VerifySession)
	api.POST("/tenants.create", h.CreateTenant)
	api.POST("/tenant.update", h.UpdateTenant, member, admin)
	api.POST("/users.invite", h.InviteUser, member, admin)
	api.GET("/users.list", h.ListMembers, member)
	api.POST("/users.acceptInvite", h.AcceptInvite)
	api.POST("/drafts.create", h.CreateDraft, member)
	api.GET("/drafts.list", h.ListDrafts, member)
	api.POST("/content/generate", h.GenerateContent, member, contentLimiter(cfg))

	tenant := api.Group("/tenants/:tenantId", member)
	tenant.GET("", h.GetTenant)
	tenant.GET("/settings", h.GetSettings)
	tenant.PUT("/settings", h.SaveSettings, admin)
	tenant.GET("/members", h.ListMembers, admin)
	tenant.POST("/members/invite", h.InviteMember, admin)
	tenant.PATCH("/members/:memberId", h.UpdateMember, admin)
	tenant.DELETE("/members/:memberId", h.RemoveMember, admin)
	tenant.GET("/drafts", h.ListDrafts)
	tenant.POST("/drafts", h.CreateDraft)
	tenant.GET("/drafts/:draftId", h.GetDraft)
	tenant.PATCH("/drafts/:draftId", h.UpdateDraft)
	tenant.POST("/drafts/:draftId/review", h.ReviewDraft, admin)
	tenant.GET("/profiles", h.ListProfiles)
	tenant.POST("/profiles", h.CreateProfile, admin)
	tenant.GET("/profiles/:profileId", h.GetProfile)
	tenant.PUT("/profiles/:profileId", h.UpdateProfile, admin)
	tenant.GET("/templates", h.ListTemplates)
	tenant.POST("/templates", h.CreateTemplate, admin)
	tenant.GET("/calendar", h.ListCalendar)
	tenant.POST("/calendar/schedule", h.ScheduleDraft, admin)
	tenant.GET("/points", h.ListPoints)
}

// contentLimiter limits generation calls per caller uid.
func contentLimiter(cfg RouterConfig) echo.MiddlewareFunc {
	if cfg.ContentRate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := cfg.ContentBurst
	if burst <= 0 {
		burst = int(cfg.ContentRate) + 1
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.ContentRate),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id := middleware.Identity(c); id != nil {
				return id.UID, nil
			}
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperr.Internal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.FromContext(c).Warn("Content generation rate limited", zap.String("uid", identifier))
			return apperr.New(apperr.KindRateLimited, apperr.CodeRateLimited, http.StatusText(http.StatusTooManyRequests))
		},
	})
}
