package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sha1n/mcp-docs-server/internal/config"
)

func newGuardedHandler(t *testing.T, settings config.AuthSettings) http.Handler {
	t.Helper()
	middleware, err := NewMiddleware(settings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func basicSettings() config.AuthSettings {
	return config.AuthSettings{
		Type: config.AuthTypeBasic,
		Basic: config.BasicAuthSettings{
			Username: "admin",
			Password: "secret",
		},
	}
}

func TestNewMiddleware_None(t *testing.T) {
	for _, authType := range []string{config.AuthTypeNone, ""} {
		handler := newGuardedHandler(t, config.AuthSettings{Type: authType})

		req := httptest.NewRequest("GET", "/test", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("auth type %q: expected status 200, got %d", authType, rec.Code)
		}
	}
}

func TestNewMiddleware_BasicAuth_Valid(t *testing.T) {
	handler := newGuardedHandler(t, basicSettings())

	req := httptest.NewRequest("GET", "/test", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestNewMiddleware_BasicAuth_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrongpassword"},
		{"wrong username", "intruder", "secret"},
		{"both wrong", "intruder", "wrongpassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newGuardedHandler(t, basicSettings())

			req := httptest.NewRequest("GET", "/test", nil)
			req.SetBasicAuth(tt.username, tt.password)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestNewMiddleware_BasicAuth_NoCredentials(t *testing.T) {
	handler := newGuardedHandler(t, basicSettings())

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("Expected WWW-Authenticate header")
	}
}

func TestNewMiddleware_BasicAuth_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		settings config.AuthSettings
	}{
		{
			name: "missing username",
			settings: config.AuthSettings{
				Type: config.AuthTypeBasic,
				Basic: config.BasicAuthSettings{
					Password: "secret",
				},
			},
		},
		{
			name: "missing password",
			settings: config.AuthSettings{
				Type: config.AuthTypeBasic,
				Basic: config.BasicAuthSettings{
					Username: "admin",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMiddleware(tt.settings)
			if err == nil {
				t.Error("Expected error for missing credentials")
			}
		})
	}
}

func TestNewMiddleware_APIKey(t *testing.T) {
	settings := config.AuthSettings{
		Type:    config.AuthTypeAPIKey,
		APIKeys: []string{"key1", "key2"},
	}

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
	}{
		{"valid X-API-Key", "X-API-Key", "key2", http.StatusOK},
		{"valid bearer token", "Authorization", "Bearer key1", http.StatusOK},
		{"invalid X-API-Key", "X-API-Key", "wrongkey", http.StatusUnauthorized},
		{"invalid bearer token", "Authorization", "Bearer wrongkey", http.StatusUnauthorized},
		{"malformed authorization", "Authorization", "key1", http.StatusUnauthorized},
		{"no credentials", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newGuardedHandler(t, settings)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestNewMiddleware_APIKey_HeaderTakesPrecedence(t *testing.T) {
	settings := config.AuthSettings{
		Type:    config.AuthTypeAPIKey,
		APIKeys: []string{"key1"},
	}
	handler := newGuardedHandler(t, settings)

	// An explicit X-API-Key header wins over the Authorization header,
	// even when the bearer token would have matched.
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "wrongkey")
	req.Header.Set("Authorization", "Bearer key1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestNewMiddleware_APIKey_NoKeys(t *testing.T) {
	settings := config.AuthSettings{
		Type:    config.AuthTypeAPIKey,
		APIKeys: []string{},
	}
	_, err := NewMiddleware(settings)
	if err == nil {
		t.Error("Expected error for no API keys")
	}
}

func TestNewMiddleware_UnknownType(t *testing.T) {
	settings := config.AuthSettings{Type: "oauth"}
	_, err := NewMiddleware(settings)
	if err == nil {
		t.Error("Expected error for unknown auth type")
	}
}

func TestOpenPaths(t *testing.T) {
	tests := []struct {
		path     string
		wantCode int
	}{
		{"/health", http.StatusOK},
		{"/test", http.StatusUnauthorized},
		{"/api/health", http.StatusUnauthorized},
		{"/", http.StatusUnauthorized},
	}

	settingsByType := map[string]config.AuthSettings{
		"basic":  basicSettings(),
		"apikey": {Type: config.AuthTypeAPIKey, APIKeys: []string{"key1"}},
	}

	for name, settings := range settingsByType {
		for _, tt := range tests {
			t.Run(name+" "+tt.path, func(t *testing.T) {
				handler := newGuardedHandler(t, settings)

				req := httptest.NewRequest("GET", tt.path, nil)
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				if rec.Code != tt.wantCode {
					t.Errorf("Expected status %d for %s, got %d", tt.wantCode, tt.path, rec.Code)
				}
			})
		}
	}
}
