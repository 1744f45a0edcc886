package devserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		cfg        CORSConfig
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantMaxAge string
	}{
		{"default allows all", CORSConfig{}, "GET", "http://localhost:5173", http.StatusOK, "*", ""},
		{"explicit wildcard", CORSConfig{AllowOrigins: []string{"*"}}, "GET", "http://a.test", http.StatusOK, "*", ""},
		{"listed origin echoed", CORSConfig{AllowOrigins: []string{"http://a.test"}}, "GET", "http://a.test", http.StatusOK, "http://a.test", ""},
		{"unlisted origin", CORSConfig{AllowOrigins: []string{"http://a.test"}}, "GET", "http://b.test", http.StatusOK, "", ""},
		{"preflight", CORSConfig{MaxAge: 600}, "OPTIONS", "http://a.test", http.StatusNoContent, "*", "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/generate", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			CORS(tt.cfg, ok).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Max-Age"); got != tt.wantMaxAge {
				t.Errorf("Access-Control-Max-Age = %q, want %q", got, tt.wantMaxAge)
			}
			if tt.method == "OPTIONS" && w.Header().Get("Access-Control-Allow-Methods") != corsMethods {
				t.Errorf("Access-Control-Allow-Methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestServer_WithCORS(t *testing.T) {
	s, _ := newServer(t)
	s.WithCORS(CORSConfig{AllowOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
