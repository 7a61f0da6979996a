package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]int{"vote_count": 3})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["vote_count"] != 3 {
		t.Errorf("body = %v", body)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		status int
	}{
		{http.StatusBadRequest},
		{http.StatusUnauthorized},
		{http.StatusForbidden},
		{http.StatusNotFound},
		{http.StatusConflict},
		{http.StatusServiceUnavailable},
		{http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondError(w, tt.status, "boom")

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q", ct)
			}

			var problem ProblemDetail
			if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if problem.Status != tt.status || problem.Detail != "boom" {
				t.Errorf("problem = %+v", problem)
			}
			if problem.Type == "" || problem.Type == "about:blank" {
				t.Errorf("type = %q, want a documented URI", problem.Type)
			}
		})
	}
}

func TestParseJSONLimitsBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", nil)

	var dest struct{}
	if err := ParseJSON(w, r, &dest); err == nil {
		t.Error("ParseJSON() on empty body succeeded, want error")
	}
}
