package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

const (
	DefaultDraftLimit = 50
	MaxDraftLimit     = 200
)

// DraftService manages tenant scoped drafts. Approving a draft earns the
// reviewer points when a PointsService is set.
type DraftService struct {
	deps
	points *PointsService
}

func NewDraftService(st store.Store, points *PointsService, log *zap.Logger) *DraftService {
	return &DraftService{deps: newDeps(st, nil, log), points: points}
}

// DraftInput is a new draft. An empty status means draft.
type DraftInput struct {
	Title   string
	Content string
	Topic   string
	Status  model.DraftStatus
}

func (s *DraftService) Create(ctx context.Context, actor Actor, tenantID string, in DraftInput) (d *model.Draft, err error) {
	defer func() { prometheus.RecordDraftOperation("create", err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation(apperr.CodeInvalidTitle, "title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation(apperr.CodeInvalidContent, "content is required")
	}
	status := in.Status
	if status == "" {
		status = model.DraftDraft
	}
	if err := checkStatus(actor, status); err != nil {
		return nil, err
	}

	now := s.now()
	d = &model.Draft{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Title:     title,
		Content:   in.Content,
		Topic:     strings.TrimSpace(in.Topic),
		Status:    status,
		CreatedBy: actor.UID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateDraft(ctx, d); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger(ctx).Info("Draft created",
		zap.String("tenant_id", tenantID),
		zap.String("draft_id", d.ID),
		zap.String("created_by", actor.UID))
	return d, nil
}

// List returns the tenant's newest drafts. limit is clamped to
// [1, MaxDraftLimit]; zero or less means DefaultDraftLimit.
func (s *DraftService) List(ctx context.Context, tenantID string, limit int) ([]model.Draft, error) {
	switch {
	case limit <= 0:
		limit = DefaultDraftLimit
	case limit > MaxDraftLimit:
		limit = MaxDraftLimit
	}
	drafts, err := s.store.ListDrafts(ctx, tenantID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return drafts, nil
}

func (s *DraftService) Get(ctx context.Context, tenantID, draftID string) (*model.Draft, error) {
	d, err := s.store.GetDraft(ctx, tenantID, draftID)
	if err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}
	return d, nil
}

// Update edits a draft. Moving a draft into a review outcome requires admin.
func (s *DraftService) Update(ctx context.Context, actor Actor, tenantID, draftID string, update model.DraftUpdate) (d *model.Draft, err error) {
	defer func() { prometheus.RecordDraftOperation("update", err) }()

	if update.Title == nil && update.Content == nil && update.Topic == nil && update.Status == nil {
		return nil, apperr.Validation(apperr.CodeNoUpdates, "no valid updates provided")
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, apperr.Validation(apperr.CodeInvalidTitle, "title cannot be empty")
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return nil, apperr.Validation(apperr.CodeInvalidContent, "content cannot be empty")
	}
	if update.Status != nil {
		if err := checkStatus(actor, *update.Status); err != nil {
			return nil, err
		}
	}

	d, err = s.store.GetDraft(ctx, tenantID, draftID)
	if err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}
	if update.Title != nil {
		d.Title = strings.TrimSpace(*update.Title)
	}
	if update.Content != nil {
		d.Content = *update.Content
	}
	if update.Topic != nil {
		d.Topic = strings.TrimSpace(*update.Topic)
	}
	if update.Status != nil {
		d.Status = *update.Status
	}
	d.UpdatedAt = s.now()

	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}
	return d, nil
}

// Review records an admin's review outcome on a draft.
func (s *DraftService) Review(ctx context.Context, actor Actor, tenantID, draftID string, status model.DraftStatus, notes string) (d *model.Draft, err error) {
	defer func() { prometheus.RecordDraftOperation("review", err) }()

	if !status.IsReviewOutcome() {
		return nil, apperr.Validation(apperr.CodeInvalidStatus, "status must be reviewed, approved or rejected")
	}
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden(apperr.CodeAdminRequired, "admin role required")
	}

	d, err = s.store.GetDraft(ctx, tenantID, draftID)
	if err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}
	now := s.now()
	d.Status = status
	d.ReviewedBy = actor.UID
	d.ReviewNotes = strings.TrimSpace(notes)
	d.ReviewedAt = &now
	d.UpdatedAt = now

	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, classify(err, apperr.CodeDraftNotFound, "draft not found")
	}

	s.logger(ctx).Info("Draft reviewed",
		zap.String("tenant_id", tenantID),
		zap.String("draft_id", draftID),
		zap.String("status", string(status)),
		zap.String("reviewed_by", actor.UID))
	if status == model.DraftApproved {
		s.points.reward(ctx, tenantID, actor.UID, ActionApprove)
	}
	return d, nil
}

func checkStatus(actor Actor, status model.DraftStatus) error {
	if _, err := model.ParseDraftStatus(string(status)); err != nil {
		return apperr.Validation(apperr.CodeInvalidStatus, "unknown draft status")
	}
	if status.IsReviewOutcome() && !actor.IsAdmin() {
		return apperr.Forbidden(apperr.CodeAdminRequired, "admin role required to set a review status")
	}
	return nil
}
