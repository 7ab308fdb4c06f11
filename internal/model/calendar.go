package model

import "time"

const SlotScheduled = "scheduled"

// CalendarSlot places a draft on the editorial calendar. ID is the date and
// time of the slot ("2006-01-02_15-04"), so scheduling the same slot again
// replaces it.
type CalendarSlot struct {
	TenantID       string    `json:"tenantId" gorm:"primaryKey;type:varchar(80)" firestore:"-"`
	ID             string    `json:"slotId" gorm:"primaryKey;type:varchar(16)" firestore:"-"`
	Month          string    `json:"month" gorm:"type:varchar(7);index" firestore:"month"`
	Date           string    `json:"dateISO" gorm:"type:varchar(10)" firestore:"dateISO"`
	Time           string    `json:"time" gorm:"type:varchar(5)" firestore:"time"`
	OwnerProfileID string    `json:"ownerProfileId" gorm:"type:varchar(64)" firestore:"ownerProfileId"`
	DraftID        string    `json:"draftId" gorm:"type:varchar(64)" firestore:"draftId"`
	Status         string    `json:"status" gorm:"type:varchar(20)" firestore:"status"`
	ScheduledAt    time.Time `json:"scheduledAt" firestore:"scheduledAt"`
	ScheduledBy    string    `json:"scheduledBy" gorm:"type:varchar(128)" firestore:"scheduledBy"`
}

// WeeklyPoints is a member's running score for one week.
type WeeklyPoints struct {
	TenantID     string    `json:"tenantId" gorm:"primaryKey;type:varchar(80)" firestore:"-"`
	Week         string    `json:"week" gorm:"primaryKey;type:varchar(8)" firestore:"-"`
	UID          string    `json:"uid" gorm:"primaryKey;type:varchar(128)" firestore:"-"`
	Points       int       `json:"points" gorm:"not null" firestore:"points"`
	Streak       int       `json:"streak" gorm:"not null" firestore:"streak"`
	LastAction   string    `json:"lastAction" gorm:"type:varchar(32)" firestore:"lastAction"`
	LastActionAt time.Time `json:"lastActionAt" firestore:"lastActionAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (WeeklyPoints) TableName() string { return "member_points" }

// PointsAward adds Points to a member's weekly score for one action.
type PointsAward struct {
	TenantID string
	UID      string
	Week     string
	Action   string
	Points   int
	At       time.Time
}
