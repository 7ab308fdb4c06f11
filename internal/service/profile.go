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

// ProfileService manages the voices a tenant writes as.
type ProfileService struct {
	deps
}

func NewProfileService(st store.Store, log *zap.Logger) *ProfileService {
	return &ProfileService{deps: newDeps(st, nil, log)}
}

// ProfileInput is a new profile. Unset tone axes default to 5.
type ProfileInput struct {
	DisplayName string
	Role        string
	AvatarURL   string
	Tone        *model.Tone
	Dos         []string
	Donts       []string
	Samples     []string
}

func (s *ProfileService) Create(ctx context.Context, actor Actor, tenantID string, in ProfileInput) (p *model.Profile, err error) {
	defer func() { prometheus.RecordEditorialOperation("profile", "create", err) }()

	name, role := strings.TrimSpace(in.DisplayName), strings.TrimSpace(in.Role)
	if name == "" || role == "" || in.Tone == nil {
		return nil, apperr.Validation(apperr.CodeMissingFields, "displayName, role, and tone are required")
	}
	tone := in.Tone.WithDefaults()
	if !tone.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidTone, "tone values must be between 1 and 10")
	}

	now := s.now()
	p = &model.Profile{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		DisplayName: name,
		Role:        role,
		AvatarURL:   strings.TrimSpace(in.AvatarURL),
		Tone:        tone,
		Dos:         cleanList(in.Dos),
		Donts:       cleanList(in.Donts),
		Samples:     cleanList(in.Samples),
		CreatedAt:   now,
		CreatedBy:   actor.UID,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger(ctx).Info("Profile created",
		zap.String("tenant_id", tenantID),
		zap.String("profile_id", p.ID),
		zap.String("created_by", actor.UID))
	return p, nil
}

func (s *ProfileService) List(ctx context.Context, tenantID string) ([]model.Profile, error) {
	profiles, err := s.store.ListProfiles(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, tenantID, id string) (*model.Profile, error) {
	p, err := s.store.GetProfile(ctx, tenantID, id)
	if err != nil {
		return nil, classify(err, apperr.CodeProfileNotFound, "profile not found")
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, actor Actor, tenantID, id string, update model.ProfileUpdate) (p *model.Profile, err error) {
	defer func() { prometheus.RecordEditorialOperation("profile", "update", err) }()

	if update.Empty() {
		return nil, apperr.Validation(apperr.CodeNoUpdates, "no valid updates provided")
	}
	if update.DisplayName != nil && strings.TrimSpace(*update.DisplayName) == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, "displayName cannot be empty")
	}
	if update.Role != nil && strings.TrimSpace(*update.Role) == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, "role cannot be empty")
	}
	if update.Tone != nil && !update.Tone.WithDefaults().Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidTone, "tone values must be between 1 and 10")
	}

	p, err = s.store.GetProfile(ctx, tenantID, id)
	if err != nil {
		return nil, classify(err, apperr.CodeProfileNotFound, "profile not found")
	}
	if update.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Role != nil {
		p.Role = strings.TrimSpace(*update.Role)
	}
	if update.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}
	if update.Tone != nil {
		p.Tone = update.Tone.WithDefaults()
	}
	if update.Dos != nil {
		p.Dos = cleanList(update.Dos)
	}
	if update.Donts != nil {
		p.Donts = cleanList(update.Donts)
	}
	if update.Samples != nil {
		p.Samples = cleanList(update.Samples)
	}
	p.UpdatedAt = s.now()
	p.UpdatedBy = actor.UID

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, classify(err, apperr.CodeProfileNotFound, "profile not found")
	}
	s.logger(ctx).Info("Profile updated",
		zap.String("tenant_id", tenantID),
		zap.String("profile_id", id),
		zap.String("updated_by", actor.UID))
	return p, nil
}

// cleanList trims entries and drops empty ones. It never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
