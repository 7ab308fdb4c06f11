package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/internal/store"
)

func TestProfileListColumns(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	p := &model.Profile{
		ID:          "p1",
		TenantID:    "t1",
		DisplayName: "Ana",
		Role:        "CEO",
		Tone:        model.Tone{Clarity: 8, Warmth: 5, Energy: 5, Sobriety: 5},
		Dos:         []string{"stories"},
		Donts:       []string{},
		Samples:     []string{"first post"},
		CreatedAt:   now,
		CreatedBy:   "ana",
		UpdatedAt:   now,
	}
	is.NoErr(s.CreateProfile(ctx, p))

	got, err := s.GetProfile(ctx, "t1", "p1")
	is.NoErr(err)
	is.Equal(got.Tone.Clarity, 8)
	is.Equal(got.Dos, []string{"stories"})
	is.Equal(got.Samples, []string{"first post"})

	got.Dos = []string{"numbers", "stories"}
	got.Tone.Energy = 9
	got.CreatedBy = "mallory"
	got.UpdatedBy = "bea"
	is.NoErr(s.SaveProfile(ctx, got))

	got, err = s.GetProfile(ctx, "t1", "p1")
	is.NoErr(err)
	is.Equal(got.Dos, []string{"numbers", "stories"})
	is.Equal(got.Tone.Energy, 9)
	is.Equal(got.CreatedBy, "ana") // creation fields are kept
	is.Equal(got.UpdatedBy, "bea")

	_, err = s.GetProfile(ctx, "t2", "p1")
	is.True(errors.Is(err, store.ErrNotFound))
	err = s.SaveProfile(ctx, &model.Profile{ID: "p1", TenantID: "t2", DisplayName: "x"})
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestTemplateBlocks(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	is.NoErr(s.CreateTemplate(ctx, &model.Template{ID: "tp1", TenantID: "t1", Name: "Story", Blocks: []string{"hook", "cta"}, CreatedAt: time.Now()}))
	is.NoErr(s.CreateTemplate(ctx, &model.Template{ID: "tp2", TenantID: "t2", Name: "Other", Blocks: []string{"x"}, CreatedAt: time.Now()}))

	list, err := s.ListTemplates(ctx, "t1")
	is.NoErr(err)
	is.Equal(len(list), 1)
	is.Equal(list[0].Blocks, []string{"hook", "cta"})

	_, err = s.GetTemplate(ctx, "t1", "tp2")
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestSlotsByMonth(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	slot := func(id, month, draft string) *model.CalendarSlot {
		return &model.CalendarSlot{TenantID: "t1", ID: id, Month: month, DraftID: draft, Status: model.SlotScheduled, ScheduledAt: time.Now()}
	}
	is.NoErr(s.SaveSlot(ctx, slot("2026-03-10_09-00", "2026-03", "d1")))
	is.NoErr(s.SaveSlot(ctx, slot("2026-03-02_09-00", "2026-03", "d2")))
	is.NoErr(s.SaveSlot(ctx, slot("2026-04-01_09-00", "2026-04", "d3")))
	is.NoErr(s.SaveSlot(ctx, slot("2026-03-10_09-00", "2026-03", "d4")))

	slots, err := s.ListSlots(ctx, "t1", "2026-03")
	is.NoErr(err)
	is.Equal(len(slots), 2)
	is.Equal(slots[0].ID, "2026-03-02_09-00")
	is.Equal(slots[1].DraftID, "d4") // rebooked slot replaced

	slots, err = s.ListSlots(ctx, "t2", "2026-03")
	is.NoErr(err)
	is.Equal(len(slots), 0)
}

func TestAddPointsAccumulates(t *testing.T) {
	is := is.New(t)
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	award := func(uid, action string, points int) model.PointsAward {
		return model.PointsAward{TenantID: "t1", UID: uid, Week: "2026-W11", Action: action, Points: points, At: at}
	}
	is.NoErr(s.AddPoints(ctx, award("ana", "approve", 10)))
	is.NoErr(s.AddPoints(ctx, award("bea", "schedule", 5)))
	is.NoErr(s.AddPoints(ctx, award("ana", "schedule", 5)))
	is.NoErr(s.AddPoints(ctx, award("bea", "schedule", 5)))
	is.NoErr(s.AddPoints(ctx, award("bea", "schedule", 5)))
	is.NoErr(s.AddPoints(ctx, model.PointsAward{TenantID: "t1", UID: "ana", Week: "2026-W12", Action: "approve", Points: 10, At: at}))

	rows, err := s.ListPoints(ctx, "t1", "2026-W11")
	is.NoErr(err)
	is.Equal(len(rows), 2)
	is.Equal(rows[0].UID, "ana")
	is.Equal(rows[0].Points, 15)
	is.Equal(rows[0].Streak, 2)
	is.Equal(rows[0].LastAction, "schedule")
	is.Equal(rows[1].UID, "bea")
	is.Equal(rows[1].Points, 15)
	is.Equal(rows[1].Streak, 3)
}
