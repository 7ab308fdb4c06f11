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

// TemplateService manages reusable post structures.
type TemplateService struct {
	deps
}

func NewTemplateService(st store.Store, log *zap.Logger) *TemplateService {
	return &TemplateService{deps: newDeps(st, nil, log)}
}

func (s *TemplateService) Create(ctx context.Context, actor Actor, tenantID, name, description string, blocks []string) (t *model.Template, err error) {
	defer func() { prometheus.RecordEditorialOperation("template", "create", err) }()

	name, blocks = strings.TrimSpace(name), cleanList(blocks)
	if name == "" || len(blocks) == 0 {
		return nil, apperr.Validation(apperr.CodeMissingFields, "name and blocks are required")
	}

	t = &model.Template{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Blocks:      blocks,
		CreatedAt:   s.now(),
		CreatedBy:   actor.UID,
	}
	if err := s.store.CreateTemplate(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger(ctx).Info("Template created",
		zap.String("tenant_id", tenantID),
		zap.String("template_id", t.ID),
		zap.String("created_by", actor.UID))
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, tenantID string) ([]model.Template, error) {
	templates, err := s.store.ListTemplates(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, tenantID, id string) (*model.Template, error) {
	t, err := s.store.GetTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, classify(err, apperr.CodeTemplateNotFound, "template not found")
	}
	return t, nil
}
