package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/service"
)

type createDraftRequest struct {
	TenantID string            `json:"tenantId"`
	Title    string            `json:"title" validate:"max=255"`
	Content  string            `json:"content"`
	Topic    string            `json:"topic" validate:"max=255"`
	Status   model.DraftStatus `json:"status"`
}

type updateDraftRequest struct {
	Title   *string            `json:"title" validate:"omitempty,max=255"`
	Content *string            `json:"content"`
	Topic   *string            `json:"topic" validate:"omitempty,max=255"`
	Status  *model.DraftStatus `json:"status"`
}

type reviewRequest struct {
	Status model.DraftStatus `json:"status"`
	Notes  string            `json:"notes" validate:"max=2000"`
}

var draftCodes = map[string]string{"title": apperr.CodeInvalidTitle}

func (h *Handler) CreateDraft(c echo.Context) error {
	var req createDraftRequest
	if err := bind(c, &req, draftCodes); err != nil {
		return err
	}

	d, err := h.drafts.Create(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), service.DraftInput{
		Title:   req.Title,
		Content: req.Content,
		Topic:   req.Topic,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}

// ListDrafts returns the newest drafts. ?limit= caps the result.
func (h *Handler) ListDrafts(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperr.Validation(apperr.CodeInvalidRequest, "limit must be a positive integer")
		}
		limit = n
	}

	drafts, err := h.drafts.List(c.Request().Context(), middleware.TenantID(c), limit)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, drafts)
}

func (h *Handler) GetDraft(c echo.Context) error {
	d, err := h.drafts.Get(c.Request().Context(), middleware.TenantID(c), c.Param("draftId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}

func (h *Handler) UpdateDraft(c echo.Context) error {
	var req updateDraftRequest
	if err := bind(c, &req, draftCodes); err != nil {
		return err
	}

	d, err := h.drafts.Update(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), c.Param("draftId"),
		model.DraftUpdate{Title: req.Title, Content: req.Content, Topic: req.Topic, Status: req.Status})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}

// ReviewDraft records an admin review outcome.
func (h *Handler) ReviewDraft(c echo.Context) error {
	var req reviewRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	d, err := h.drafts.Review(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), c.Param("draftId"),
		req.Status, req.Notes)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, d)
}
