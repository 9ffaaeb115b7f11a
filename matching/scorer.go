// Package matching holds the deterministic scoring of facilities against a
// professional's preferences, catalog merge rules, and the match lifecycle.
package matching

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/medimatch/api/model"
)

// Scoring weights. The base plus all bonuses exceeds 99 on purpose: a full
// triple match still displays as 99, never a perfect 100.
const (
	scoreBase      = 50
	sizeBonus      = 20
	vibeBonus      = 15
	specialtyBonus = 15
	scoreCap       = 99
)

// Score computes the displayed match percentage of one facility for one user.
// Deterministic: same inputs, same output. Distance never feeds the score.
func Score(user model.User, hospital model.HospitalProfile) int {
	score := scoreBase

	if user.PreferredSize != "" {
		for _, size := range hospital.SizeList() {
			if size == user.PreferredSize {
				score += sizeBonus
				break
			}
		}
	}

	if user.PreferredVibe != "" && vibeMatches(user.PreferredVibe, hospital.RegionVibe) {
		score += vibeBonus
	}

	if user.Specialty != "" {
		wanted := strings.ToLower(user.Specialty)
		for _, focus := range hospital.SpecialtyList() {
			if strings.Contains(strings.ToLower(focus), wanted) {
				score += specialtyBonus
				break
			}
		}
	}

	if score > scoreCap {
		score = scoreCap
	}
	return score
}

// vibeMatches checks the vibe relation in both substring directions after
// lowercasing: the facility descriptor contains the preference, or the
// preference contains the descriptor's leading comma-segment.
func vibeMatches(preferred, facilityVibe string) bool {
	pref := strings.ToLower(preferred)
	vibe := strings.ToLower(facilityVibe)
	if strings.Contains(vibe, pref) {
		return true
	}
	head := strings.TrimSpace(strings.SplitN(vibe, ",", 2)[0])
	return head != "" && strings.Contains(pref, head)
}

// ScoreAndSort decorates a copy of the catalog with per-viewer match
// percentages and stable-sorts it best-first. Ties keep catalog order.
func ScoreAndSort(user model.User, hospitals []model.HospitalProfile) []model.HospitalProfile {
	out := make([]model.HospitalProfile, len(hospitals))
	copy(out, hospitals)
	for i := range out {
		out[i].MatchPercentage = Score(user, out[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

// RandomDistance returns the 5 to 54 km display distance. Independent of the
// score by contract.
func RandomDistance() int {
	return 5 + rand.Intn(50)
}
