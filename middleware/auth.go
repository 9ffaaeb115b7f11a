package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

const (
	storeKey       = "store"
	currentUserKey = "currentUser"
	tokenKey       = "sessionToken"
)

// StoreMiddleware injects the configured Store into the request context so
// handlers never reach for a package-level singleton.
func StoreMiddleware(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeKey, s)
		c.Next()
	}
}

// GetStore returns the Store injected by StoreMiddleware.
func GetStore(c *gin.Context) (store.Store, error) {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil, errors.New("store not found in context")
	}
	s, ok := v.(store.Store)
	if !ok {
		return nil, errors.New("invalid store in context")
	}
	return s, nil
}

// SessionToken extracts the bearer token from the Authorization header.
// Returns "" when the request is anonymous.
func SessionToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// ValidateLoginToken authenticates the request: the bearer token must be a
// valid signed JWT and resolve to a live session in the store. On success the
// full user record and the token are placed in the request context.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Missing session token",
				Err: errors.New("no authorization header"),
			})
			c.Abort()
			return
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return util.GetJWTSecretByte(), nil
		})
		if err != nil || !parsed.Valid {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session token",
				Err: errors.New("token validation failed"),
			})
			c.Abort()
			return
		}

		s, err := GetStore(c)
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Store unavailable", Err: err})
			c.Abort()
			return
		}

		user, err := s.GetSessionUser(c.Request.Context(), token)
		if errors.Is(err, store.ErrNotFound) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session expired, please log in again",
				Err: errors.New("session not found"),
			})
			c.Abort()
			return
		}
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to resolve session", Err: err})
			c.Abort()
			return
		}

		util.SessionEmailCacheSet(token, user.Email)
		c.Set(currentUserKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by ValidateLoginToken.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// CurrentToken returns the session token behind the authenticated request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// RequireAdmin guards recruiter back-office routes. Must run after
// ValidateLoginToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Authentication required",
				Err: errors.New("no authenticated user"),
			})
			c.Abort()
			return
		}
		if !user.IsAdmin {
			util.LogUnauthorizedAccess(user.Email, c.ClientIP(), c.Request.URL.Path, "not an admin")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Admin access required",
				Err: errors.New("insufficient permissions"),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
