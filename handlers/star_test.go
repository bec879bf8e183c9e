package handlers

import (
	"net/http"
	"testing"
)

func TestStarEndpointsRequireUser(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/api/pastes/x/star"},
		{http.MethodDelete, "/api/pastes/x/star"},
		{http.MethodGet, "/api/starred"},
	} {
		w := f.do(t, tc.method, tc.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestStarAndUnstar(t *testing.T) {
	f := newFixture(t)
	alice := map[string]string{AuthorHeader: "alice@example.com"}

	w := f.do(t, http.MethodPost, "/api/pastes", `{"files": [{"filename": "x.txt", "content": "x"}]}`, nil)
	id := decodeJSON(t, w)["id"].(string)

	// Starring a missing paste fails.
	w = f.do(t, http.MethodPut, "/api/pastes/missing/star", "", alice)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/pastes/"+id+"/star", "", alice)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := decodeJSON(t, w)["paste_id"]; got != id {
		t.Errorf("paste_id = %v", got)
	}

	w = f.do(t, http.MethodGet, "/api/starred", "", alice)
	pastes := decodeJSON(t, w)["pastes"].([]any)
	if len(pastes) != 1 {
		t.Fatalf("expected 1 starred paste, got %d", len(pastes))
	}

	w = f.do(t, http.MethodDelete, "/api/pastes/"+id+"/star", "", alice)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/starred", "", alice)
	if pastes := decodeJSON(t, w)["pastes"].([]any); len(pastes) != 0 {
		t.Errorf("expected no starred pastes, got %d", len(pastes))
	}
}
