package util

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitSessionEmailCache(t *testing.T) {
	// Test with default capacity
	InitSessionEmailCache(0)
	if sessionCache == nil {
		t.Fatal("Expected sessionCache to be initialized")
	}
	if sessionCache.capacity != 1000 {
		t.Errorf("Expected default capacity 1000, got %d", sessionCache.capacity)
	}

	// Test with specific capacity
	InitSessionEmailCache(50)
	if sessionCache.capacity != 50 {
		t.Errorf("Expected capacity 50, got %d", sessionCache.capacity)
	}
}

func TestSessionEmailCacheGetSet(t *testing.T) {
	InitSessionEmailCache(3)

	// Test cache miss
	email, ok := SessionEmailCacheGet("tok-1")
	if ok {
		t.Error("Expected cache miss for non-existent key")
	}
	if email != "" {
		t.Errorf("Expected empty email, got %q", email)
	}

	// Test cache set and get
	SessionEmailCacheSet("tok-1", "user1@example.com")
	email, ok = SessionEmailCacheGet("tok-1")
	if !ok {
		t.Error("Expected cache hit")
	}
	if email != "user1@example.com" {
		t.Errorf("Expected user1@example.com, got %q", email)
	}

	// Overwrite keeps a single entry
	SessionEmailCacheSet("tok-1", "renamed@example.com")
	email, _ = SessionEmailCacheGet("tok-1")
	if email != "renamed@example.com" {
		t.Errorf("Expected renamed@example.com, got %q", email)
	}
}

func TestSessionEmailCacheEviction(t *testing.T) {
	InitSessionEmailCache(2)

	SessionEmailCacheSet("tok-1", "one@example.com")
	SessionEmailCacheSet("tok-2", "two@example.com")
	// Touch tok-1 so tok-2 becomes least recently used
	SessionEmailCacheGet("tok-1")
	SessionEmailCacheSet("tok-3", "three@example.com")

	if _, ok := SessionEmailCacheGet("tok-2"); ok {
		t.Error("Expected tok-2 to be evicted")
	}
	if _, ok := SessionEmailCacheGet("tok-1"); !ok {
		t.Error("Expected tok-1 to survive eviction")
	}
	if _, ok := SessionEmailCacheGet("tok-3"); !ok {
		t.Error("Expected tok-3 to be present")
	}
}

func TestSessionEmailCacheDelete(t *testing.T) {
	InitSessionEmailCache(5)
	SessionEmailCacheSet("tok-1", "one@example.com")
	SessionEmailCacheDelete("tok-1")
	if _, ok := SessionEmailCacheGet("tok-1"); ok {
		t.Error("Expected tok-1 to be removed")
	}
	// Deleting an absent token is harmless
	SessionEmailCacheDelete("ghost")
}

func TestGetSessionEmail_DBFallback(t *testing.T) {
	InitSessionEmailCache(5)

	dsn := fmt.Sprintf("file:sessioncache_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	type Session struct {
		ID           uint `gorm:"primaryKey"`
		SessionToken string
		UserEmail    string
		ExpiresAt    time.Time
	}
	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&Session{SessionToken: "tok-db", UserEmail: "db@example.com", ExpiresAt: time.Now().Add(time.Hour)})
	db.Create(&Session{SessionToken: "tok-expired", UserEmail: "old@example.com", ExpiresAt: time.Now().Add(-time.Hour)})

	SetSessionLookupDB(db)
	t.Cleanup(func() { SetSessionLookupDB(nil) })

	if got := GetSessionEmail("tok-db"); got != "db@example.com" {
		t.Errorf("Expected db@example.com, got %q", got)
	}
	// Second lookup comes from the cache
	if _, ok := SessionEmailCacheGet("tok-db"); !ok {
		t.Error("Expected DB result to be cached")
	}
	if got := GetSessionEmail("tok-expired"); got != "" {
		t.Errorf("Expected empty email for expired session, got %q", got)
	}
	if got := GetSessionEmail(""); got != "" {
		t.Errorf("Expected empty email for empty token, got %q", got)
	}
	SetSessionLookupDB(nil)
	if got := GetSessionEmail("tok-missing"); got != "" {
		t.Errorf("Expected empty email without a lookup db, got %q", got)
	}
}
