package matching

import (
	"github.com/samber/lo"

	"github.com/medimatch/api/model"
)

// MergeCatalog combines a freshly fetched batch into the stored catalog.
// Incoming records whose id already exists are dropped, leaving the stored
// entry untouched; survivors are appended after the existing records in their
// original order. Returns the merged catalog and how many records were added.
func MergeCatalog(existing, incoming []model.HospitalProfile) ([]model.HospitalProfile, int) {
	seen := lo.SliceToMap(existing, func(h model.HospitalProfile) (string, struct{}) {
		return h.ID, struct{}{}
	})

	merged := make([]model.HospitalProfile, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	added := 0
	for _, h := range incoming {
		if _, dup := seen[h.ID]; dup {
			continue
		}
		seen[h.ID] = struct{}{}
		merged = append(merged, h)
		added++
	}
	return merged, added
}
