package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName     string `json:"appname"`
	AppEnv      string `json:"appenv"`
	AppPort     uint16 `json:"appport"`
	GinMode     string `json:"ginmode"`
	StoreDriver string `json:"storedriver"`
	DBHost      string `json:"dbhost"`
	DBPort      uint16 `json:"dbport"`
	DBName      string `json:"dbname"`
	DBUSER      string `json:"dbuser"`
	DBPass      string `json:"dbpass"`
	SQLitePath  string `json:"sqlitepath"`
	AdminEmail  string `json:"adminemail"`
	GeminiKey   string `json:"geminikey"`
	GeminiModel string `json:"geminimodel"`
	GeminiURL   string `json:"geminiurl"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// Load environment variables from .env file. A missing file is fine
		// when the environment is already populated (tests, containers).
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(getEnvDefault("APPPORT", "8080"), 10, 16)
		dbPort, _ := strconv.ParseUint(getEnvDefault("DBPORT", "3306"), 10, 16)

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:     getEnvDefault("APPNAME", "MediMatch"),
			AppEnv:      os.Getenv("APPENV"),
			AppPort:     uint16(appPort),
			GinMode:     getEnvDefault("GINMODE", "debug"),
			StoreDriver: getEnvDefault("STORE_DRIVER", "mysql"),
			DBHost:      os.Getenv("DBHOST"),
			DBPort:      uint16(dbPort),
			DBName:      os.Getenv("DBNAME"),
			DBUSER:      os.Getenv("DBUSER"),
			DBPass:      os.Getenv("DBPASS"),
			SQLitePath:  getEnvDefault("SQLITE_PATH", "medimatch.db"),
			AdminEmail:  getEnvDefault("ADMIN_EMAIL", "cheriet@elsan.care"),
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel: getEnvDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
			GeminiURL:   getEnvDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		}
	})
	return config
}

func getEnvDefault(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	return value
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// This is the remote-backend variant of the persistence layer.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	// Open a database connection.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// ConnectSQLite opens the on-device database file. This is the local-storage
// variant of the persistence layer and exposes the same semantics as the
// MySQL-backed remote variant.
func ConnectSQLite() (*gorm.DB, error) {
	cfg := LoadConfig()
	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
