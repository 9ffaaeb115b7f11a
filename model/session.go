package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is the explicit, per-client session pointer: it maps an opaque token
// to the signed-in user identity. Clearing a session never deletes the user
// record; deleting a user removes every session pointing at that email.
type Session struct {
	gorm.Model
	SessionToken string    `json:"session_token" gorm:"column:session_token;type:varchar(512);uniqueIndex"`
	UserEmail    string    `json:"user_email" gorm:"column:user_email;type:varchar(191);index"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at"`
}
