package models

import "time"

// UserSettings stores per-user branding and scheduling preferences.
// One row per user identity.
type UserSettings struct {
	ID                 string    `json:"id"`
	UserID             int64     `json:"user_id"`
	BrandName          string    `json:"brand_name"`
	BrandTone          string    `json:"brand_tone"`
	PreferredPlatforms []string  `json:"preferred_platforms"`
	AutoSchedule       bool      `json:"auto_schedule"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewUserSettings creates settings with auto-scheduling enabled by default.
func NewUserSettings(userID int64) *UserSettings {
	now := time.Now().UTC()
	return &UserSettings{
		UserID:       userID,
		AutoSchedule: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
