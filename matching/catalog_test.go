package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medimatch/api/model"
)

func ids(hospitals []model.HospitalProfile) []string {
	out := make([]string, len(hospitals))
	for i, h := range hospitals {
		out[i] = h.ID
	}
	return out
}

func TestMergeCatalog(t *testing.T) {
	existing := []model.HospitalProfile{
		{ID: "h-1", Name: "Stored One"},
		{ID: "h-2", Name: "Stored Two"},
	}
	incoming := []model.HospitalProfile{
		{ID: "h-2", Name: "Fetched Two (changed)"},
		{ID: "h-3", Name: "Fetched Three"},
		{ID: "h-4", Name: "Fetched Four"},
	}

	merged, added := MergeCatalog(existing, incoming)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"h-1", "h-2", "h-3", "h-4"}, ids(merged))
	// The duplicate did not overwrite the stored record.
	assert.Equal(t, "Stored Two", merged[1].Name)
}

func TestMergeCatalog_DuplicatesWithinBatch(t *testing.T) {
	incoming := []model.HospitalProfile{
		{ID: "h-1", Name: "First"},
		{ID: "h-1", Name: "Repeat"},
	}
	merged, added := MergeCatalog(nil, incoming)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"h-1"}, ids(merged))
	assert.Equal(t, "First", merged[0].Name)
}

func TestMergeCatalog_EmptyInputs(t *testing.T) {
	existing := []model.HospitalProfile{{ID: "h-1"}}

	merged, added := MergeCatalog(existing, nil)
	assert.Equal(t, 0, added)
	assert.Equal(t, []string{"h-1"}, ids(merged))

	merged, added = MergeCatalog(nil, nil)
	assert.Equal(t, 0, added)
	assert.Empty(t, merged)
}
