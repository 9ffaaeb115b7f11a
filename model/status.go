package model

// Availability statuses a professional can pick on their profile. The set is
// closed: writes with any other value are rejected at the boundary.
const (
	StatusCurious   = "Curieux"
	StatusAvailable = "Disponible"
	StatusStandby   = "En veille"
)

var statuses = []string{StatusCurious, StatusAvailable, StatusStandby}

// ValidStatus reports whether s is one of the three allowed statuses.
// The empty string is allowed too: status is optional until onboarding is done.
func ValidStatus(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Statuses returns a copy of the allowed status values.
func Statuses() []string {
	return append([]string(nil), statuses...)
}
