package util

import (
	"container/list"
	"os"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
)

// LRU cache for session token -> account email, used to annotate request logs
// without a store lookup per request.
type sessionEntry struct {
	token string
	email string
}

type sessionLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

var sessionCache *sessionLRU
var sessionLookupDB *gorm.DB

// SetSessionLookupDB sets the gorm DB used to resolve session tokens that
// fell out of the cache, e.g. after a restart. Call during startup next to
// SetSecurityLoggerDB; memory-store deployments leave it nil.
func SetSessionLookupDB(db *gorm.DB) {
	sessionLookupDB = db
}

// InitSessionEmailCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitSessionEmailCache(capacity int) {
	if capacity <= 0 {
		capacity = 1000
	}
	sessionCache = &sessionLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

// SessionEmailCacheGet returns the email and true if present in cache.
func SessionEmailCacheGet(token string) (string, bool) {
	if sessionCache == nil {
		return "", false
	}
	sessionCache.mu.Lock()
	defer sessionCache.mu.Unlock()
	if ele, ok := sessionCache.cache[token]; ok {
		sessionCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(sessionEntry); ok {
			return e.email, true
		}
	}
	return "", false
}

// SessionEmailCacheSet sets the email for a session token in the cache.
func SessionEmailCacheSet(token, email string) {
	if sessionCache == nil {
		return
	}
	sessionCache.mu.Lock()
	defer sessionCache.mu.Unlock()
	if ele, ok := sessionCache.cache[token]; ok {
		sessionCache.ll.MoveToFront(ele)
		ele.Value = sessionEntry{token: token, email: email}
		return
	}
	ele := sessionCache.ll.PushFront(sessionEntry{token: token, email: email})
	sessionCache.cache[token] = ele
	if sessionCache.ll.Len() > sessionCache.capacity {
		// evict least recently used
		tail := sessionCache.ll.Back()
		if tail != nil {
			if e, ok := tail.Value.(sessionEntry); ok {
				delete(sessionCache.cache, e.token)
			}
			sessionCache.ll.Remove(tail)
		}
	}
}

// SessionEmailCacheDelete drops a token, called on logout and invalidation.
func SessionEmailCacheDelete(token string) {
	if sessionCache == nil {
		return
	}
	sessionCache.mu.Lock()
	defer sessionCache.mu.Unlock()
	if ele, ok := sessionCache.cache[token]; ok {
		sessionCache.ll.Remove(ele)
		delete(sessionCache.cache, token)
	}
}

// GetSessionEmail returns the email behind a session token using the cache,
// falling back to the sessions table when a lookup DB was configured. A DB
// hit refills the cache.
func GetSessionEmail(token string) string {
	if token == "" {
		return ""
	}
	if email, ok := SessionEmailCacheGet(token); ok {
		return email
	}
	if sessionLookupDB == nil {
		return ""
	}
	var s struct{ UserEmail string }
	err := sessionLookupDB.Table("sessions").Select("user_email").
		Where("session_token = ? AND expires_at > ?", token, time.Now()).
		Take(&s).Error
	if err == nil {
		if s.UserEmail != "" {
			SessionEmailCacheSet(token, s.UserEmail)
		}
		return s.UserEmail
	}
	return ""
}

// InitSessionEmailCacheFromEnv initializes the cache using the env var SESSION_EMAIL_CACHE_SIZE
func InitSessionEmailCacheFromEnv() {
	sizeStr := os.Getenv("SESSION_EMAIL_CACHE_SIZE")
	if sizeStr == "" {
		InitSessionEmailCache(0)
		return
	}
	if n, err := strconv.Atoi(sizeStr); err == nil {
		InitSessionEmailCache(n)
		return
	}
	InitSessionEmailCache(0)
}
