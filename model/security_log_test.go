package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestSecurityLogModel_Create(t *testing.T) {
	db := setupTestDB(t, "seclog", &SecurityLog{})

	entry := SecurityLog{
		EventType: "LOGIN_SUCCESS",
		Email:     "doc@example.com",
		IP:        "192.168.1.1",
		UserAgent: "test-agent",
		Message:   "User logged in successfully",
	}
	assert.NoError(t, db.Create(&entry).Error)
	assert.NotZero(t, entry.ID)

	var found SecurityLog
	assert.NoError(t, db.Where("email = ?", "doc@example.com").First(&found).Error)
	assert.Equal(t, "LOGIN_SUCCESS", found.EventType)
	assert.Equal(t, "192.168.1.1", found.IP)
}

func TestSecurityLogModel_DetailsJSON(t *testing.T) {
	db := setupTestDB(t, "seclog_details", &SecurityLog{})

	entry := SecurityLog{
		EventType: "GENERATION_FAILURE",
		Email:     "doc@example.com",
		Details:   datatypes.JSON(`{"mode":"discovery","reason":"status 429"}`),
	}
	assert.NoError(t, db.Create(&entry).Error)

	var found SecurityLog
	assert.NoError(t, db.Where("event_type = ?", "GENERATION_FAILURE").First(&found).Error)
	assert.Contains(t, string(found.Details), "discovery")
}

func TestSecurityLogModel_QueryByEventType(t *testing.T) {
	db := setupTestDB(t, "seclog_query", &SecurityLog{})

	for _, ev := range []string{"LOGIN_FAILURE", "LOGIN_FAILURE", "ACCOUNT_LOCKED"} {
		assert.NoError(t, db.Create(&SecurityLog{EventType: ev, Email: "doc@example.com"}).Error)
	}

	var count int64
	db.Model(&SecurityLog{}).Where("event_type = ?", "LOGIN_FAILURE").Count(&count)
	assert.EqualValues(t, 2, count)
}
