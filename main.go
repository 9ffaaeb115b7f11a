// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/config"
	"github.com/medimatch/api/endpoint"
	"github.com/medimatch/api/generator"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

func main() {
	cfg := config.LoadConfig()

	s, err := openStore(cfg)
	if err != nil {
		log.Fatalf("error opening %s store: %v", cfg.StoreDriver, err)
	}

	if _, err := config.ConnectRedis(); err != nil {
		// Sessions and rate limiting degrade gracefully without Redis.
		log.Printf("redis unavailable: %v", err)
	}
	if err := util.InitGeoIP(os.Getenv("GEOIP_DB_PATH")); err != nil {
		log.Printf("geoip disabled: %v", err)
	}

	util.SetJWTSecret(os.Getenv("JWTSECRET"))
	util.InitSessionEmailCacheFromEnv()

	endpoint.SetListingClient(generator.New(cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiKey))

	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.StoreMiddleware(s))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	// Public surface.
	router.GET("/legal", endpoint.GetLegal)
	router.GET("/specialties", endpoint.ListSpecialties)
	router.GET("/token/validate", endpoint.ValidateToken)
	router.POST("/password/forgot", endpoint.ForgotPassword)

	// Credential routes carry a login rate limit per client IP.
	limited := router.Group("/")
	limited.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))
	{
		limited.POST("/signup", endpoint.Signup)
		limited.POST("/login", endpoint.Login)
	}

	auth := router.Group("/")
	auth.Use(middleware.ValidateLoginToken())
	{
		auth.DELETE("/logout", endpoint.Logout)
		auth.GET("/profile", endpoint.GetProfile)
		auth.PATCH("/profile", endpoint.UpdateProfile)
		auth.DELETE("/profile", endpoint.DeleteProfile)

		auth.GET("/hospitals", endpoint.ListHospitals)
		auth.POST("/hospitals/refresh", endpoint.RefreshHospitals)
		auth.POST("/hospitals/:id/view", endpoint.RecordHospitalView)

		auth.GET("/matches", endpoint.ListMatches)
		auth.POST("/matches", endpoint.AcceptMatch)
		auth.POST("/matches/:id/messages", endpoint.PostMatchMessage)

		admin := auth.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/admin/users", endpoint.ListUsers)
			admin.PATCH("/admin/users/:email/admin", endpoint.ToggleAdmin)
			admin.POST("/admin/hospitals", endpoint.CreateHospital)
			admin.PATCH("/admin/hospitals/:id", endpoint.UpdateHospital)
			admin.DELETE("/admin/hospitals/:id", endpoint.DeleteHospital)
			admin.POST("/admin/matches/:id/messages", endpoint.PostRecruiterMessage)
			admin.GET("/admin/stats", endpoint.GetStats)
			admin.PUT("/legal", endpoint.UpdateLegal)
		}
	}

	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// openStore selects the persistence driver: mysql (shared backend), sqlite
// (single-node installs) or memory (throwaway demos).
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		db, err := config.ConnectSQLite()
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(db); err != nil {
			return nil, err
		}
		util.SetSecurityLoggerDB(db)
		util.SetSessionLookupDB(db)
		return store.NewGormStore(db), nil
	case "mysql":
		db, err := config.ConnectMySQL()
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(db); err != nil {
			return nil, err
		}
		util.SetSecurityLoggerDB(db)
		util.SetSessionLookupDB(db)
		return store.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
