package endpoint_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
)

func TestUpdateProfile(t *testing.T) {
	r, _ := newTestRouter(t)
	token := signupUser(t, r, "doc@example.com", "password123", "Alice")

	code, resp := doRequest(t, r, http.MethodPatch, "/profile", map[string]interface{}{
		"years_experience":      8,
		"specialty":             "Cardiologue",
		"preferred_size":        "SMR",
		"preferred_region_vibe": "Bord de mer et plage",
		"status":                model.StatusAvailable,
		"bio":                   "Cardiologue passionné de voile, je cherche une équipe soudée près de la mer.",
	}, token)
	if code != http.StatusOK {
		t.Fatalf("profile update returned %d: %s", code, resp.Error)
	}

	var user model.User
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if user.Specialty != "Cardiologue" || user.YearsExp != 8 || user.Status != model.StatusAvailable {
		t.Fatalf("profile fields not applied: %+v", user)
	}

	// Partial updates leave untouched fields alone.
	code, resp = doRequest(t, r, http.MethodPatch, "/profile", map[string]interface{}{
		"leisure": "Surf, Voile",
	}, token)
	if code != http.StatusOK {
		t.Fatalf("partial update returned %d", code)
	}
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if user.Specialty != "Cardiologue" || user.Leisure != "Surf, Voile" {
		t.Fatalf("partial update clobbered fields: %+v", user)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := signupUser(t, r, "doc@example.com", "password123", "Alice")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"blank name", map[string]interface{}{"name": "   "}},
		{"zero experience", map[string]interface{}{"years_experience": 0}},
		{"negative experience", map[string]interface{}{"years_experience": -3}},
		{"unknown specialty", map[string]interface{}{"specialty": "Alchimiste"}},
		{"unknown status", map[string]interface{}{"status": "Parti"}},
		{"empty bio", map[string]interface{}{"bio": "  "}},
		{"placeholder bio", map[string]interface{}{"bio": model.DefaultBio}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := doRequest(t, r, http.MethodPatch, "/profile", tc.body, token)
			if code != http.StatusBadRequest {
				t.Fatalf("returned %d, want 400", code)
			}
		})
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	r, s := newTestRouter(t)
	token := signupUser(t, r, "doc@example.com", "password123", "Alice")

	code, _ := doRequest(t, r, http.MethodDelete, "/profile", nil, token)
	if code != http.StatusOK {
		t.Fatalf("delete profile returned %d", code)
	}
	if _, err := s.GetUser(t.Context(), "doc@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("account still present after delete: %v", err)
	}
	// The session that performed the delete is gone with the account.
	if code, _ = doRequest(t, r, http.MethodGet, "/profile", nil, token); code != http.StatusUnauthorized {
		t.Fatalf("deleted account's token still accepted: %d", code)
	}
	// The address can sign up again from scratch.
	signupUser(t, r, "doc@example.com", "newpassword", "Alice Again")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, _ := newTestRouter(t)
	token := signupUser(t, r, "doc@example.com", "password123", "Alice")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/admin/users"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodPost, "/admin/hospitals"},
	} {
		code, _ := doRequest(t, r, route.method, route.path, nil, token)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s %s returned %d for a regular user, want 401", route.method, route.path, code)
		}
	}
}

func TestToggleAdmin(t *testing.T) {
	r, s := newTestRouter(t)
	adminToken := signupUser(t, r, "cheriet@elsan.care", "password123", "Super Admin")
	signupUser(t, r, "doc@example.com", "password123", "Alice")

	code, _ := doRequest(t, r, http.MethodPatch, "/admin/users/doc@example.com/admin",
		map[string]bool{"is_admin": true}, adminToken)
	if code != http.StatusOK {
		t.Fatalf("promote returned %d", code)
	}
	user, err := s.GetUser(t.Context(), "doc@example.com")
	if err != nil || !user.IsAdmin {
		t.Fatalf("promotion not persisted: %+v %v", user, err)
	}

	code, _ = doRequest(t, r, http.MethodPatch, "/admin/users/doc@example.com/admin",
		map[string]bool{"is_admin": false}, adminToken)
	if code != http.StatusOK {
		t.Fatalf("demote returned %d", code)
	}
	user, _ = s.GetUser(t.Context(), "doc@example.com")
	if user.IsAdmin {
		t.Fatal("demotion not persisted")
	}

	// The designated admin account is not demotable.
	code, _ = doRequest(t, r, http.MethodPatch, "/admin/users/cheriet@elsan.care/admin",
		map[string]bool{"is_admin": false}, adminToken)
	if code != http.StatusBadRequest {
		t.Fatalf("super admin demotion returned %d, want 400", code)
	}

	code, _ = doRequest(t, r, http.MethodPatch, "/admin/users/ghost@example.com/admin",
		map[string]bool{"is_admin": true}, adminToken)
	if code != http.StatusNotFound {
		t.Fatalf("unknown account toggle returned %d, want 404", code)
	}
}

func TestListUsers(t *testing.T) {
	r, _ := newTestRouter(t)
	adminToken := signupUser(t, r, "cheriet@elsan.care", "password123", "Super Admin")
	signupUser(t, r, "doc@example.com", "password123", "Alice")
	signupUser(t, r, "doc2@example.com", "password123", "Bob")

	code, resp := doRequest(t, r, http.MethodGet, "/admin/users", nil, adminToken)
	if code != http.StatusOK {
		t.Fatalf("list users returned %d", code)
	}
	var users []model.User
	if err := json.Unmarshal(resp.Data, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users, want 3", len(users))
	}
}
