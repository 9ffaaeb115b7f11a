package endpoint_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/config"
	"github.com/medimatch/api/util"
)

// TestMain pins the configuration for every test in the package. The config
// singleton is process-wide, so this has to happen before the first
// LoadConfig call.
func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("GINMODE", "release")
	os.Setenv("STORE_DRIVER", "memory")
	os.Setenv("ADMIN_EMAIL", "cheriet@elsan.care")

	util.SetJWTSecret("test-secret-123")
	util.InitSessionEmailCache(64)

	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	os.Exit(m.Run())
}
