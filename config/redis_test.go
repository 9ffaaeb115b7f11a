package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRedis_SkippedInTestEnv(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	ResetRedisClientForTesting()

	// The package runs with APPENV=test, so even an enabled Redis is skipped
	// and the nil client signals graceful degradation.
	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_SingletonReturnsSameResult(t *testing.T) {
	ResetRedisClientForTesting()

	first, err := ConnectRedis()
	assert.NoError(t, err)
	second, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetRedisClient_FollowsTestOverride(t *testing.T) {
	original := GetRedisClient()
	defer SetRedisClientForTesting(original)

	SetRedisClientForTesting(nil)
	assert.Nil(t, GetRedisClient())
}
