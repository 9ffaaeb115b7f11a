package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HospitalProfile is a facility listing card. Set-valued attributes are stored
// as JSON arrays so the record round-trips the listing-generator wire shape.
// @Description Healthcare facility listing
type HospitalProfile struct {
	ID                string         `json:"id" gorm:"column:id;primaryKey;type:varchar(96)"`
	Name              string         `json:"name" gorm:"column:name" example:"Clinique SMR Le Floride"`
	Location          string         `json:"location" gorm:"column:location" example:"66 - Le Barcarès"`
	RegionVibe        string         `json:"region_vibe" gorm:"column:region_vibe" example:"Les pieds dans l'eau, Cadre vacances"`
	Size              datatypes.JSON `json:"size" gorm:"column:size;type:json"`
	SpecialtyFocus    datatypes.JSON `json:"specialty_focus" gorm:"column:specialty_focus;type:json"`
	Bio               string         `json:"bio" gorm:"column:bio;type:text"`
	LeisureActivities datatypes.JSON `json:"leisure_activities" gorm:"column:leisure_activities;type:json"`
	WorkRhythm        datatypes.JSON `json:"work_rhythm" gorm:"column:work_rhythm;type:json"`
	ImageURL          string         `json:"image_url" gorm:"column:image_url;type:varchar(512)"`
	VideoURL          string         `json:"video_url,omitempty" gorm:"column:video_url;type:varchar(512)"`
	DistanceKm        int            `json:"distance_km" gorm:"column:distance_km"`
	MatchPercentage   int            `json:"match_percentage" gorm:"column:match_percentage"`
	Perks             datatypes.JSON `json:"perks" gorm:"column:perks;type:json"`

	// SortIndex keeps the catalog's iteration order stable across stores:
	// lower values come first, authored inserts take min-1, merged fetches max+1.
	SortIndex int            `json:"-" gorm:"column:sort_index;index"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SizeList decodes the size-category set. Absent or malformed data yields nil.
func (h *HospitalProfile) SizeList() []string { return decodeStringList(h.Size) }

// SpecialtyList decodes the specialty-focus set.
func (h *HospitalProfile) SpecialtyList() []string { return decodeStringList(h.SpecialtyFocus) }

// LeisureList decodes the leisure-activities set.
func (h *HospitalProfile) LeisureList() []string { return decodeStringList(h.LeisureActivities) }

// WorkRhythmList decodes the work-rhythm set.
func (h *HospitalProfile) WorkRhythmList() []string { return decodeStringList(h.WorkRhythm) }

// PerkList decodes the perks set.
func (h *HospitalProfile) PerkList() []string { return decodeStringList(h.Perks) }

// SetSizeList encodes the size-category set.
func (h *HospitalProfile) SetSizeList(v []string) { h.Size = encodeStringList(v) }

// SetSpecialtyList encodes the specialty-focus set.
func (h *HospitalProfile) SetSpecialtyList(v []string) { h.SpecialtyFocus = encodeStringList(v) }

// SetLeisureList encodes the leisure-activities set.
func (h *HospitalProfile) SetLeisureList(v []string) { h.LeisureActivities = encodeStringList(v) }

// SetWorkRhythmList encodes the work-rhythm set.
func (h *HospitalProfile) SetWorkRhythmList(v []string) { h.WorkRhythm = encodeStringList(v) }

// SetPerkList encodes the perks set.
func (h *HospitalProfile) SetPerkList(v []string) { h.Perks = encodeStringList(v) }

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		// The generator occasionally returns a bare string where an array is
		// expected; coerce it into a one-element set.
		var single string
		if err2 := json.Unmarshal(raw, &single); err2 == nil && single != "" {
			return []string{single}
		}
		return nil
	}
	return out
}

func encodeStringList(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	raw, _ := json.Marshal(v)
	return datatypes.JSON(raw)
}
