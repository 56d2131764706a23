package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys disables auth", nil, "/api/v1/search", "", http.StatusOK},
		{"blank keys disable auth", []string{"", "  "}, "/api/v1/search", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/api/v1/search", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/api/v1/search", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong key", []string{"secret"}, "/api/v1/search", "Bearer nope", http.StatusUnauthorized},
		{"valid key", []string{"secret"}, "/api/v1/search", "Bearer secret", http.StatusOK},
		{"second key", []string{"k1", "k2"}, "/api/v1/suggestions", "Bearer k2", http.StatusOK},
		{"health is public", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics is public", []string{"secret"}, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.keys)(okHandler())

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorResponseCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeUnauthorized)
			}
		})
	}
}
