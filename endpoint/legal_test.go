package endpoint_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/medimatch/api/model"
)

func TestLegalText(t *testing.T) {
	r, _ := newTestRouter(t)

	// The default French body is served without authentication.
	code, resp := doRequest(t, r, http.MethodGet, "/legal", nil, "")
	if code != http.StatusOK {
		t.Fatalf("get legal returned %d", code)
	}
	var text string
	if err := json.Unmarshal(resp.Data, &text); err != nil {
		t.Fatalf("decode legal text: %v", err)
	}
	if text != model.DefaultLegalText {
		t.Fatalf("default legal text not served: %q", text)
	}

	adminToken := signupUser(t, r, "cheriet@elsan.care", "password123", "Super Admin")
	code, _ = doRequest(t, r, http.MethodPut, "/legal",
		map[string]string{"text": "Mentions légales révisées."}, adminToken)
	if code != http.StatusOK {
		t.Fatalf("put legal returned %d", code)
	}

	code, resp = doRequest(t, r, http.MethodGet, "/legal", nil, "")
	if code != http.StatusOK {
		t.Fatalf("get legal returned %d", code)
	}
	if err := json.Unmarshal(resp.Data, &text); err != nil {
		t.Fatalf("decode legal text: %v", err)
	}
	if text != "Mentions légales révisées." {
		t.Fatalf("updated legal text not served: %q", text)
	}

	// Anonymous and non-admin writes are refused.
	if code, _ = doRequest(t, r, http.MethodPut, "/legal",
		map[string]string{"text": "défacé"}, ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous put legal returned %d, want 401", code)
	}
}

func TestListSpecialties(t *testing.T) {
	r, _ := newTestRouter(t)

	code, resp := doRequest(t, r, http.MethodGet, "/specialties", nil, "")
	if code != http.StatusOK {
		t.Fatalf("specialties returned %d", code)
	}
	var specialties []string
	if err := json.Unmarshal(resp.Data, &specialties); err != nil {
		t.Fatalf("decode specialties: %v", err)
	}
	if len(specialties) != len(model.MedicalSpecialties) {
		t.Fatalf("got %d specialties, want %d", len(specialties), len(model.MedicalSpecialties))
	}
	if !strings.EqualFold(specialties[len(specialties)-1], "Autre") {
		t.Fatalf("catalog should end with the catch-all entry, got %q", specialties[len(specialties)-1])
	}
}
