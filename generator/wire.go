package generator

// Wire types for the Gemini generateContent REST endpoint.

type geminiRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// facilityPayload is one generated listing as it appears in the model output.
// Size and work_rhythm tolerate a bare string where an array is expected.
type facilityPayload struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	RegionVibe        string    `json:"region_vibe"`
	Size              stringSet `json:"size"`
	SpecialtyFocus    stringSet `json:"specialty_focus"`
	Bio               string    `json:"bio"`
	LeisureActivities stringSet `json:"leisure_activities"`
	WorkRhythm        stringSet `json:"work_rhythm"`
	DistanceKm        int       `json:"distance_km"`
	MatchPercentage   int       `json:"match_percentage"`
	Perks             stringSet `json:"perks"`
	VideoURL          string    `json:"video_url"`
}
