package model

import "time"

// DefaultToneScore is used for tone axes left unset.
const DefaultToneScore = 5

// Tone scores a writing voice on four axes, each from 1 to 10.
type Tone struct {
	Clarity  int `json:"clarity" firestore:"clarity"`
	Warmth   int `json:"warmth" firestore:"warmth"`
	Energy   int `json:"energy" firestore:"energy"`
	Sobriety int `json:"sobriety" firestore:"sobriety"`
}

// WithDefaults returns t with unset axes set to DefaultToneScore.
func (t Tone) WithDefaults() Tone {
	for _, v := range []*int{&t.Clarity, &t.Warmth, &t.Energy, &t.Sobriety} {
		if *v == 0 {
			*v = DefaultToneScore
		}
	}
	return t
}

// Valid reports whether every axis is within 1..10.
func (t Tone) Valid() bool {
	for _, v := range []int{t.Clarity, t.Warmth, t.Energy, t.Sobriety} {
		if v < 1 || v > 10 {
			return false
		}
	}
	return true
}

// Profile is a voice the tenant writes as, such as a founder or the company
// page. Role here is the person's job title, not a membership role.
type Profile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)" firestore:"-"`
	TenantID    string    `json:"tenantId" gorm:"type:varchar(80);index;not null" firestore:"-"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(255);not null" firestore:"displayName"`
	Role        string    `json:"role" gorm:"type:varchar(255)" firestore:"role"`
	AvatarURL   string    `json:"avatarUrl,omitempty" gorm:"type:text" firestore:"avatarUrl,omitempty"`
	Tone        Tone      `json:"tone" gorm:"embedded;embeddedPrefix:tone_" firestore:"tone"`
	Dos         []string  `json:"dos" gorm:"type:text;serializer:json" firestore:"dos"`
	Donts       []string  `json:"donts" gorm:"type:text;serializer:json" firestore:"donts"`
	Samples     []string  `json:"samples" gorm:"type:text;serializer:json" firestore:"samples"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	CreatedBy   string    `json:"createdBy" gorm:"type:varchar(128)" firestore:"createdBy"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty" gorm:"type:varchar(128)" firestore:"updatedBy,omitempty"`
}

// ProfileUpdate holds the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Role        *string
	AvatarURL   *string
	Tone        *Tone
	Dos         []string
	Donts       []string
	Samples     []string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Role == nil && u.AvatarURL == nil && u.Tone == nil &&
		u.Dos == nil && u.Donts == nil && u.Samples == nil
}

// Template is a reusable post structure, an ordered list of blocks such as
// hook, story and call to action.
type Template struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)" firestore:"-"`
	TenantID    string    `json:"tenantId" gorm:"type:varchar(80);index;not null" firestore:"-"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" firestore:"name"`
	Description string    `json:"description" gorm:"type:text" firestore:"description"`
	Blocks      []string  `json:"blocks" gorm:"type:text;serializer:json" firestore:"blocks"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	CreatedBy   string    `json:"createdBy" gorm:"type:varchar(128)" firestore:"createdBy"`
}
