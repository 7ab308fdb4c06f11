package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
	"github.com/ldflores83/falconcore/prometheus"
)

// Action is an editorial action that earns points.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionSchedule Action = "schedule"
)

var actionPoints = map[Action]int{
	ActionApprove:  10,
	ActionSchedule: 5,
}

var weekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// WeekKey returns the ISO week of t as "2006-W01".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PointsService keeps the weekly engagement score of tenant members.
type PointsService struct {
	deps
}

func NewPointsService(st store.Store, log *zap.Logger) *PointsService {
	return &PointsService{deps: newDeps(st, nil, log)}
}

// Award adds the points of action to uid's score for the current week.
func (s *PointsService) Award(ctx context.Context, tenantID, uid string, action Action) error {
	points, ok := actionPoints[action]
	if !ok {
		return fmt.Errorf("service: unknown points action %q", action)
	}
	now := s.now()
	err := s.store.AddPoints(ctx, model.PointsAward{
		TenantID: tenantID,
		UID:      uid,
		Week:     WeekKey(now),
		Action:   string(action),
		Points:   points,
		At:       now,
	})
	if err != nil {
		return err
	}
	prometheus.RecordPointsAwarded(string(action), points)
	s.logger(ctx).Info("Points awarded",
		zap.String("tenant_id", tenantID),
		zap.String("uid", uid),
		zap.String("action", string(action)),
		zap.Int("points", points))
	return nil
}

// reward awards points after the action itself succeeded. Failures are
// logged only. A nil receiver awards nothing.
func (s *PointsService) reward(ctx context.Context, tenantID, uid string, action Action) {
	if s == nil {
		return
	}
	if err := s.Award(ctx, tenantID, uid, action); err != nil {
		s.logger(ctx).Warn("Failed to award points",
			zap.String("tenant_id", tenantID),
			zap.String("uid", uid),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// Leaderboard returns the scores for week, highest first. An empty week
// means the current one.
func (s *PointsService) Leaderboard(ctx context.Context, tenantID, week string) ([]model.WeeklyPoints, error) {
	if week == "" {
		week = WeekKey(s.now())
	}
	if !weekPattern.MatchString(week) {
		return nil, apperr.Validation(apperr.CodeInvalidRequest, "week must look like 2006-W01")
	}
	rows, err := s.store.ListPoints(ctx, tenantID, week)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
