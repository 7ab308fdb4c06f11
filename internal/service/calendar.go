package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

const (
	slotDateLayout  = "2006-01-02"
	slotTimeLayout  = "15:04"
	slotMonthLayout = "2006-01"
)

// CalendarService places drafts on the tenant's editorial calendar.
type CalendarService struct {
	deps
	points *PointsService
}

// NewCalendarService returns a calendar service. points may be nil.
func NewCalendarService(st store.Store, points *PointsService, log *zap.Logger) *CalendarService {
	return &CalendarService{deps: newDeps(st, nil, log), points: points}
}

// SlotInput schedules DraftID, written as OwnerProfileID, at Date ("2006-01-02")
// and Time ("15:04").
type SlotInput struct {
	Date           string
	Time           string
	OwnerProfileID string
	DraftID        string
}

// Schedule books a slot. Booking a slot that is already taken replaces it.
func (s *CalendarService) Schedule(ctx context.Context, actor Actor, tenantID string, in SlotInput) (slot *model.CalendarSlot, err error) {
	defer func() { prometheus.RecordEditorialOperation("calendar", "schedule", err) }()

	in.Date, in.Time = strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)
	if in.Date == "" || in.Time == "" || in.OwnerProfileID == "" || in.DraftID == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, "dateISO, time, ownerProfileId, and draftId are required")
	}
	day, err := time.Parse(slotDateLayout, in.Date)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeInvalidSchedule, "dateISO must be YYYY-MM-DD")
	}
	at, err := time.Parse(slotTimeLayout, in.Time)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeInvalidSchedule, "time must be HH:MM")
	}

	if _, err := s.store.GetProfile(ctx, tenantID, in.OwnerProfileID); err != nil {
		return nil, classify(err, apperr.CodeProfileNotFound, "profile not found")
	}
	if _, err := s.store.GetDraft(ctx, tenantID, in.DraftID); err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}

	slot = &model.CalendarSlot{
		TenantID:       tenantID,
		ID:             day.Format(slotDateLayout) + "_" + at.Format("15-04"),
		Month:          day.Format(slotMonthLayout),
		Date:           day.Format(slotDateLayout),
		Time:           at.Format(slotTimeLayout),
		OwnerProfileID: in.OwnerProfileID,
		DraftID:        in.DraftID,
		Status:         model.SlotScheduled,
		ScheduledAt:    s.now(),
		ScheduledBy:    actor.UID,
	}
	if err := s.store.SaveSlot(ctx, slot); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger(ctx).Info("Draft scheduled",
		zap.String("tenant_id", tenantID),
		zap.String("slot_id", slot.ID),
		zap.String("draft_id", in.DraftID),
		zap.String("scheduled_by", actor.UID))
	s.points.reward(ctx, tenantID, actor.UID, ActionSchedule)
	return slot, nil
}

// List returns the slots of month ("2006-01"). An empty month means the
// current one.
func (s *CalendarService) List(ctx context.Context, tenantID, month string) ([]model.CalendarSlot, error) {
	if month == "" {
		month = s.now().Format(slotMonthLayout)
	}
	if _, err := time.Parse(slotMonthLayout, month); err != nil {
		return nil, apperr.Validation(apperr.CodeInvalidRequest, "month must be YYYY-MM")
	}
	slots, err := s.store.ListSlots(ctx, tenantID, month)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return slots, nil
}
