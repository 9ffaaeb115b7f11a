package model

import "gorm.io/gorm"

// StatCounters is the single-row table of process-wide cumulative counters.
// Counters only ever grow; increments are applied with atomic SQL updates so
// concurrent sessions cannot lose writes.
type StatCounters struct {
	gorm.Model
	TotalLogins        int64 `json:"total_logins" gorm:"column:total_logins;default:0"`
	TotalRegistrations int64 `json:"total_registrations" gorm:"column:total_registrations;default:0"`
	TotalMessages      int64 `json:"total_messages" gorm:"column:total_messages;default:0"`
}

// HospitalView is one per-facility view counter row.
type HospitalView struct {
	HospitalID string `json:"hospital_id" gorm:"column:hospital_id;primaryKey;type:varchar(96)"`
	Views      int64  `json:"views" gorm:"column:views;default:0"`
}

// AppStats is the read-path snapshot assembled from the counter rows.
// @Description Cumulative application usage statistics
type AppStats struct {
	TotalLogins        int64            `json:"totalLogins"`
	TotalRegistrations int64            `json:"totalRegistrations"`
	TotalMessages      int64            `json:"totalMessages"`
	HospitalViews      map[string]int64 `json:"hospitalViews"`
}
