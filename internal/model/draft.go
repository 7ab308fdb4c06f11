package model

import "time"

// Draft is a tenant scoped piece of content.
type Draft struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(64)" firestore:"-"`
	TenantID    string      `json:"tenantId" gorm:"type:varchar(80);index:idx_drafts_tenant_created,priority:1;not null" firestore:"-"`
	Title       string      `json:"title" gorm:"type:varchar(255);not null" firestore:"title"`
	Content     string      `json:"content" gorm:"type:text" firestore:"content"`
	Topic       string      `json:"topic,omitempty" gorm:"type:varchar(255)" firestore:"topic,omitempty"`
	Status      DraftStatus `json:"status" gorm:"type:varchar(20);not null" firestore:"status"`
	CreatedBy   string      `json:"createdBy" gorm:"type:varchar(128)" firestore:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"index:idx_drafts_tenant_created,priority:2" firestore:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" firestore:"updatedAt"`
	ReviewedBy  string      `json:"reviewedBy,omitempty" gorm:"type:varchar(128)" firestore:"reviewedBy,omitempty"`
	ReviewNotes string      `json:"reviewNotes,omitempty" gorm:"type:text" firestore:"reviewNotes,omitempty"`
	ReviewedAt  *time.Time  `json:"reviewedAt,omitempty" firestore:"reviewedAt,omitempty"`
}

// DraftUpdate holds the editable draft fields. Nil fields are left unchanged.
type DraftUpdate struct {
	Title   *string
	Content *string
	Topic   *string
	Status  *DraftStatus
}
