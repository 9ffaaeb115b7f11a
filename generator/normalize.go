package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medimatch/api/model"
)

// DefaultVideoURL is used when the generated listing carries no video.
const DefaultVideoURL = "https://www.youtube.com/watch?v=F_Sj8d94W2k"

// stringSet decodes a JSON string array, coercing a bare string into a
// one-element set. The generator occasionally slips on array shapes.
type stringSet []string

func (s *stringSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*s = stringSet{single}
	return nil
}

// facilityImage maps establishment names to their listing photos, with two
// rotating sun-and-medical fallbacks.
func facilityImage(name string, index int) string {
	normalized := strings.ToLower(name)
	switch {
	case strings.Contains(normalized, "floride"):
		return "https://images.unsplash.com/photo-1596178060671-7a80dc8059ea?q=80&w=800&auto=format&fit=crop"
	case strings.Contains(normalized, "supervaltech"):
		return "https://images.unsplash.com/photo-1519494026892-80bbd2d6fd0d?q=80&w=800&auto=format&fit=crop"
	case strings.Contains(normalized, "narbonne"):
		return "https://images.unsplash.com/photo-1516549655169-df83a0774514?q=80&w=800&auto=format&fit=crop"
	case strings.Contains(normalized, "michel"):
		return "https://images.unsplash.com/photo-1519817650390-64a93db51149?q=80&w=800&auto=format&fit=crop"
	case strings.Contains(normalized, "roch"):
		return "https://images.unsplash.com/photo-1586773860418-d37222d8fce3?q=80&w=800&auto=format&fit=crop"
	case strings.Contains(normalized, "sud"):
		return "https://images.unsplash.com/photo-1571772996211-2f02c9727629?q=80&w=800&auto=format&fit=crop"
	}
	if index%2 == 0 {
		return "https://images.unsplash.com/photo-1538108149393-fbbd81895907?q=80&w=800&auto=format&fit=crop"
	}
	return "https://images.unsplash.com/photo-1629909613654-28e377c37b09?q=80&w=800&auto=format&fit=crop"
}

// normalize converts generated payloads into catalog records. In discovery
// mode every id is re-minted with a fresh unique suffix: the upstream model
// tends to reuse its hardcoded ids across calls, which would collide with
// records already in the catalog.
func normalize(payloads []facilityPayload, mode string) []model.HospitalProfile {
	out := make([]model.HospitalProfile, 0, len(payloads))
	for i, p := range payloads {
		h := model.HospitalProfile{
			ID:              p.ID,
			Name:            p.Name,
			Location:        p.Location,
			RegionVibe:      p.RegionVibe,
			Bio:             p.Bio,
			ImageURL:        facilityImage(p.Name, i),
			VideoURL:        p.VideoURL,
			DistanceKm:      p.DistanceKm,
			MatchPercentage: p.MatchPercentage,
		}
		if mode == ModeDiscovery {
			h.ID = fmt.Sprintf("%s-%s", p.ID, uuid.NewString()[:8])
		}
		if h.VideoURL == "" {
			h.VideoURL = DefaultVideoURL
		}
		h.SetSizeList(p.Size)
		h.SetSpecialtyList(p.SpecialtyFocus)
		h.SetLeisureList(p.LeisureActivities)
		h.SetWorkRhythmList(p.WorkRhythm)
		h.SetPerkList(p.Perks)
		out = append(out, h)
	}
	return out
}
