package model

import "time"

// Tenant is an isolated workspace owned by the user who created it.
type Tenant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(80)" firestore:"id"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" firestore:"name"`
	LogoURL   string    `json:"logoUrl,omitempty" gorm:"type:text" firestore:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	CreatedBy string    `json:"createdBy" gorm:"type:varchar(128);index;not null" firestore:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty" gorm:"type:varchar(128)" firestore:"updatedBy,omitempty"`
}

// TenantUpdate holds the mutable tenant fields. Nil fields are left unchanged.
type TenantUpdate struct {
	Name    *string
	LogoURL *string
}

// Empty reports whether the update changes nothing.
func (u TenantUpdate) Empty() bool {
	return u.Name == nil && u.LogoURL == nil
}

// TenantSettings is the per-tenant editorial configuration document.
type TenantSettings struct {
	TenantID     string    `json:"-" gorm:"primaryKey;type:varchar(80)" firestore:"-"`
	TenantName   string    `json:"tenantName" gorm:"type:varchar(100)" firestore:"tenantName"`
	LogoURL      string    `json:"logoUrl" gorm:"type:text" firestore:"logoUrl"`
	PrimaryTopic string    `json:"primaryTopic" gorm:"type:varchar(255)" firestore:"primaryTopic"`
	About        string    `json:"about" gorm:"type:text" firestore:"about"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" firestore:"updatedAt"`
	UpdatedBy    string    `json:"updatedBy,omitempty" gorm:"type:varchar(128)" firestore:"updatedBy"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }
