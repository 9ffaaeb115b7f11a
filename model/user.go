package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a registered medical professional account together with the
// matching preferences captured at onboarding.
// @Description Medical professional account and matching preferences
type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex" example:"doc@example.com"`
	PasswordHash string `json:"-" gorm:"column:password_hash;type:varchar(191)"`
	PasswordSalt string `json:"-" gorm:"column:password_salt;type:varchar(64)"`
	IsAdmin      bool   `json:"is_admin" gorm:"column:is_admin;default:false" example:"false"`
	Name         string `json:"name" gorm:"column:name" example:"Alice"`
	YearsExp     int    `json:"years_experience" gorm:"column:years_experience" example:"5"`
	Specialty    string `json:"specialty" gorm:"column:specialty" example:"Cardiologue"`

	PreferredSize string `json:"preferred_size" gorm:"column:preferred_size" example:"SMR"`
	PreferredVibe string `json:"preferred_region_vibe" gorm:"column:preferred_region_vibe" example:"Bord de mer et plage"`
	Leisure       string `json:"leisure" gorm:"column:leisure" example:"Surf, Voile, Rando"`
	WorkLife      string `json:"work_life_balance" gorm:"column:work_life_balance" example:"Equilibre parfait"`
	Status        string `json:"status" gorm:"column:status;type:varchar(32)" example:"Disponible"`
	Avatar        string `json:"avatar" gorm:"column:avatar;type:varchar(512)"`
	Bio           string `json:"bio" gorm:"column:bio;type:text"`

	FailedLoginAttempts int        `json:"-" gorm:"column:failed_login_attempts;default:0"`
	LockedUntil         *time.Time `json:"-" gorm:"column:locked_until"`
}

// DefaultBio is the placeholder bio pre-filled at onboarding. Profiles keeping
// it verbatim are not considered complete.
const DefaultBio = "Je cherche une structure à taille humaine où je peux soigner mes patients le matin et profiter du soleil l'après-midi. L'équilibre vie pro/vie perso est ma priorité."

// NormalizeEmail lowercases and trims an email so that the address acts as a
// case-insensitive identity key everywhere it is written or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
