package model

import "time"

// User is the per-identity record. TenantID is set once, when the user creates
// a tenant or accepts their first invitation.
type User struct {
	UID         string    `json:"uid" gorm:"primaryKey;type:varchar(128)" firestore:"-"`
	Email       string    `json:"email" gorm:"type:varchar(255);index" firestore:"email"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(255)" firestore:"displayName"`
	TenantID    string    `json:"tenantId,omitempty" gorm:"type:varchar(80);index" firestore:"tenantId"`
	Role        Role      `json:"role,omitempty" gorm:"type:varchar(20)" firestore:"role"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// HasTenant reports whether the user is already linked to a tenant.
func (u *User) HasTenant() bool {
	return u != nil && u.TenantID != ""
}
