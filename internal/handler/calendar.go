package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/service"
)

type scheduleRequest struct {
	Date           string `json:"dateISO"`
	Time           string `json:"time"`
	OwnerProfileID string `json:"ownerProfileId"`
	DraftID        string `json:"draftId"`
}

// ScheduleDraft books a draft into a calendar slot.
func (h *Handler) ScheduleDraft(c echo.Context) error {
	var req scheduleRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	slot, err := h.calendar.Schedule(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), service.SlotInput{
		Date:           req.Date,
		Time:           req.Time,
		OwnerProfileID: req.OwnerProfileID,
		DraftID:        req.DraftID,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, slot)
}

// ListCalendar returns the slots of ?month=YYYY-MM, the current month by
// default.
func (h *Handler) ListCalendar(c echo.Context) error {
	slots, err := h.calendar.List(c.Request().Context(), middleware.TenantID(c), c.QueryParam("month"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, slots)
}

// ListPoints returns the leaderboard of ?week=YYYY-Www, the current week by
// default.
func (h *Handler) ListPoints(c echo.Context) error {
	rows, err := h.points.Leaderboard(c.Request().Context(), middleware.TenantID(c), c.QueryParam("week"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, rows)
}
