package handlers

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeJSON(t, w)["status"]; got != "ok" {
		t.Errorf("status = %v", got)
	}
}

func TestResaveRequiresAdminToken(t *testing.T) {
	f := newFixture(t)

	// No token configured disables the endpoint.
	f.config.AdminToken = ""
	w := f.do(t, http.MethodPost, "/api/admin/resave", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	f.config.AdminToken = "sekrit"

	w = f.do(t, http.MethodPost, "/api/admin/resave", "", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/admin/resave", "", map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestResaveRunsTask(t *testing.T) {
	f := newFixture(t)
	f.config.AdminToken = "sekrit"

	w := f.do(t, http.MethodPost, "/api/pastes", `{"files": [{"filename": "x.txt", "content": "x"}]}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/admin/resave", "", map[string]string{"Authorization": "Bearer sekrit"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	body := decodeJSON(t, w)
	if body["seen"] != float64(1) {
		t.Errorf("seen = %v, want 1", body["seen"])
	}
	if body["failed"] != float64(0) {
		t.Errorf("failed = %v, want 0", body["failed"])
	}
}
