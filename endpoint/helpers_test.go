package endpoint_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/api/endpoint"
	"github.com/medimatch/api/middleware"
	"github.com/medimatch/api/store"
)

// newTestRouter builds the full route table over a fresh in-memory store,
// mirroring the wiring in main.
func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()

	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.StoreMiddleware(s))

	r.POST("/signup", endpoint.Signup)
	r.POST("/login", endpoint.Login)
	r.POST("/password/forgot", endpoint.ForgotPassword)
	r.GET("/legal", endpoint.GetLegal)
	r.GET("/specialties", endpoint.ListSpecialties)
	r.GET("/token/validate", endpoint.ValidateToken)

	auth := r.Group("/")
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
	return r, s
}

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// doRequest runs one request through the router and decodes the JSON
// envelope. body may be nil, a raw string, or any marshalable value.
func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}, token string) (int, apiResp) {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResp
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, resp
}

// signupUser registers an account and returns its session token.
func signupUser(t *testing.T, r http.Handler, email, password, name string) string {
	t.Helper()
	code, resp := doRequest(t, r, http.MethodPost, "/signup", map[string]string{
		"email": email, "password": password, "name": name,
	}, "")
	if code != http.StatusOK {
		t.Fatalf("signup %s returned %d: %s", email, code, resp.Error)
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &auth); err != nil {
		t.Fatalf("decode signup data: %v", err)
	}
	if auth.Token == "" {
		t.Fatalf("signup %s returned no token", email)
	}
	return auth.Token
}

// loginUser authenticates an existing account and returns the session token.
func loginUser(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	code, resp := doRequest(t, r, http.MethodPost, "/login", map[string]string{
		"email": email, "password": password,
	}, "")
	if code != http.StatusOK {
		t.Fatalf("login %s returned %d: %s", email, code, resp.Error)
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &auth); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	return auth.Token
}
