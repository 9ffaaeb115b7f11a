package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chat message sender roles.
const (
	SenderUser     = "user"
	SenderHospital = "hospital"
)

// Match is the mutual-interest record created when a user accepts a facility.
// The facility is embedded as a snapshot, not a reference, so recruiter edits
// to the catalog never rewrite conversation history.
// @Description Match between a user and a facility, with its chat thread
type Match struct {
	ID          string         `json:"id" gorm:"column:id;primaryKey;type:varchar(64)"`
	UserEmail   string         `json:"-" gorm:"column:user_email;type:varchar(191);uniqueIndex:idx_match_user_hospital"`
	HospitalID  string         `json:"-" gorm:"column:hospital_id;type:varchar(96);uniqueIndex:idx_match_user_hospital"`
	Hospital    datatypes.JSON `json:"hospital" gorm:"column:hospital;type:json"`
	Messages    []ChatMessage  `json:"messages" gorm:"foreignKey:MatchID;references:ID"`
	LastMessage string         `json:"lastMessage,omitempty" gorm:"column:last_message;type:text"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ChatMessage is immutable once created: appended, never edited or removed.
// @Description Single chat message inside a match thread
type ChatMessage struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;type:varchar(64)"`
	MatchID   string    `json:"-" gorm:"column:match_id;type:varchar(64);index"`
	Sender    string    `json:"sender" gorm:"column:sender;type:varchar(16)" example:"user"`
	Text      string    `json:"text" gorm:"column:text;type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
}

// HospitalSnapshot decodes the embedded facility record.
func (m *Match) HospitalSnapshot() (HospitalProfile, error) {
	var h HospitalProfile
	err := json.Unmarshal(m.Hospital, &h)
	return h, err
}

// SetHospitalSnapshot embeds a copy of the facility record into the match.
func (m *Match) SetHospitalSnapshot(h HospitalProfile) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return err
	}
	m.Hospital = datatypes.JSON(raw)
	m.HospitalID = h.ID
	return nil
}
