package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/contentgen"
	"github.com/ldflores83/falconcore/internal/store"
)

const defaultTenantName = "Your Company"

// ContentService generates post text for a tenant using its settings as
// context.
type ContentService struct {
	deps
	generator contentgen.Generator
	timeout   time.Duration
}

func NewContentService(st store.Store, generator contentgen.Generator, timeout time.Duration, log *zap.Logger) *ContentService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ContentService{
		deps:      newDeps(st, nil, log),
		generator: generator,
		timeout:   timeout,
	}
}

// Generated is the result of a generation call.
type Generated struct {
	Text     string `json:"text"`
	Topic    string `json:"topic,omitempty"`
	Profile  string `json:"profile,omitempty"`
	Template string `json:"template,omitempty"`
}

// GenerateInput is one generation request. ProfileID and TemplateID are
// optional; unknown ids are ignored.
type GenerateInput struct {
	Prompt     string
	Topic      string
	ProfileID  string
	TemplateID string
}

// Generate produces a post for the prompt. An empty topic falls back to the
// tenant's primary topic. A profile adds its voice and a template its block
// structure to the request.
func (s *ContentService) Generate(ctx context.Context, actor Actor, tenantID string, in GenerateInput) (*Generated, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, "tenantId and prompt are required")
	}

	req := contentgen.Request{Topic: strings.TrimSpace(in.Topic), Prompt: prompt}
	out := &Generated{}

	settings, err := s.store.GetSettings(ctx, tenantID)
	switch {
	case err == nil:
		if req.Topic == "" {
			req.Topic = settings.PrimaryTopic
		}
		req.TenantName = settings.TenantName
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Internal(err)
	}
	if req.TenantName == "" {
		if tenant, err := s.store.GetTenant(ctx, tenantID); err == nil {
			req.TenantName = tenant.Name
		}
	}
	if req.TenantName == "" {
		req.TenantName = defaultTenantName
	}

	if in.ProfileID != "" {
		p, err := s.store.GetProfile(ctx, tenantID, in.ProfileID)
		switch {
		case err == nil:
			req.Author = fmt.Sprintf("%s (%s)", p.DisplayName, p.Role)
			req.Voice = fmt.Sprintf("Clarity %d/10, Warmth %d/10, Energy %d/10, Sobriety %d/10",
				p.Tone.Clarity, p.Tone.Warmth, p.Tone.Energy, p.Tone.Sobriety)
			req.Dos, req.Donts = p.Dos, p.Donts
			out.Profile = p.DisplayName
		case errors.Is(err, store.ErrNotFound):
			s.logger(ctx).Warn("Unknown profile ignored", zap.String("tenant_id", tenantID), zap.String("profile_id", in.ProfileID))
		default:
			return nil, apperr.Internal(err)
		}
	}
	if in.TemplateID != "" {
		t, err := s.store.GetTemplate(ctx, tenantID, in.TemplateID)
		switch {
		case err == nil:
			req.Structure = t.Blocks
			out.Template = t.Name
		case errors.Is(err, store.ErrNotFound):
			s.logger(ctx).Warn("Unknown template ignored", zap.String("tenant_id", tenantID), zap.String("template_id", in.TemplateID))
		default:
			return nil, apperr.Internal(err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.logger(ctx).Error("Content generation failed",
			zap.String("tenant_id", tenantID),
			zap.String("uid", actor.UID),
			zap.Error(err))
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Timeout(apperr.CodeUpstreamTimeout, "content generation timed out").Wrap(err)
		}
		return nil, apperr.New(apperr.KindInternal, apperr.CodeUpstreamFailed, "content generation failed").Wrap(err)
	}

	s.logger(ctx).Info("Content generated",
		zap.String("tenant_id", tenantID),
		zap.String("uid", actor.UID),
		zap.Int("length", len(text)))
	out.Text, out.Topic = text, req.Topic
	return out, nil
}
