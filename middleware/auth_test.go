package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
	"github.com/medimatch/api/util"
)

func signedToken(t *testing.T, email string, expiry time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(expiry).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(util.GetJWTSecretByte())
	require.NoError(t, err)
	return token
}

func authTestRouter(t *testing.T, s store.Store, adminOnly bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StoreMiddleware(s))
	handlers := []gin.HandlerFunc{ValidateLoginToken()}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	r.GET("/protected", handlers...)
	return r
}

func doAuthRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestValidateLoginToken_Success(t *testing.T) {
	util.SetJWTSecret("middleware-test-secret")
	util.InitSessionEmailCache(10)
	s := store.NewMemoryStore()
	ctx := context.Background()

	user := model.User{Email: "doc@example.com", Name: "Alice"}
	require.NoError(t, s.SaveUser(ctx, &user))
	token := signedToken(t, "doc@example.com", time.Hour)
	require.NoError(t, s.SetSession(ctx, token, "doc@example.com", time.Now().Add(time.Hour)))

	w := doAuthRequest(authTestRouter(t, s, false), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doc@example.com")
}

func TestValidateLoginToken_MissingHeader(t *testing.T) {
	util.SetJWTSecret("middleware-test-secret")
	w := doAuthRequest(authTestRouter(t, store.NewMemoryStore(), false), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_BadSignature(t *testing.T) {
	util.SetJWTSecret("middleware-test-secret")
	s := store.NewMemoryStore()

	util.SetJWTSecret("a-different-secret")
	token := signedToken(t, "doc@example.com", time.Hour)
	util.SetJWTSecret("middleware-test-secret")

	w := doAuthRequest(authTestRouter(t, s, false), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_NoLiveSession(t *testing.T) {
	util.SetJWTSecret("middleware-test-secret")
	s := store.NewMemoryStore()
	ctx := context.Background()
	user := model.User{Email: "doc@example.com"}
	require.NoError(t, s.SaveUser(ctx, &user))

	// Valid JWT but the session was never registered (or was cleared).
	token := signedToken(t, "doc@example.com", time.Hour)

	w := doAuthRequest(authTestRouter(t, s, false), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	util.SetJWTSecret("middleware-test-secret")
	util.InitSessionEmailCache(10)
	s := store.NewMemoryStore()
	ctx := context.Background()

	regular := model.User{Email: "doc@example.com"}
	require.NoError(t, s.SaveUser(ctx, &regular))
	admin := model.User{Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, s.SaveUser(ctx, &admin))

	regularToken := signedToken(t, "doc@example.com", time.Hour)
	require.NoError(t, s.SetSession(ctx, regularToken, "doc@example.com", time.Now().Add(time.Hour)))
	adminToken := signedToken(t, "admin@example.com", time.Hour)
	require.NoError(t, s.SetSession(ctx, adminToken, "admin@example.com", time.Now().Add(time.Hour)))

	r := authTestRouter(t, s, true)

	w := doAuthRequest(r, regularToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAuthRequest(r, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetStore_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetStore(c)
	assert.Error(t, err)
}
