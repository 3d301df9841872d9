package models

import (
	"time"
)

// Known site setting keys. Updates are validated against this set so the
// settings table cannot accumulate arbitrary keys.
const (
	SettingCODEnabled        = "cod_enabled"
	SettingStoreAnnouncement = "store_announcement"
	SettingSupportEmail      = "support_email"
	SettingSupportPhone      = "support_phone"
)

// KnownSettingKeys lists every setting key the admin API accepts
var KnownSettingKeys = []string{
	SettingCODEnabled,
	SettingStoreAnnouncement,
	SettingSupportEmail,
	SettingSupportPhone,
}

// IsKnownSettingKey reports whether key is part of the settings schema
func IsKnownSettingKey(key string) bool {
	for _, k := range KnownSettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SiteSetting is a key/value row used for admin-tunable toggles
type SiteSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SiteSetting model
func (SiteSetting) TableName() string {
	return "site_settings"
}
