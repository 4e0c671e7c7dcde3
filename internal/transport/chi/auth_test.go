package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoOwnerHandler(t *testing.T, gotOwner *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotOwner = OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_DisabledPassesThrough(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(nil)(echoOwnerHandler(t, &owner))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if owner != "default" {
		t.Errorf("expected default owner, got %q", owner)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(map[string]string{"secret": "alice"})(echoOwnerHandler(t, &owner))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(map[string]string{"secret": "alice"})(echoOwnerHandler(t, &owner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil)
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_InvalidKey(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(map[string]string{"secret": "alice"})(echoOwnerHandler(t, &owner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_ValidKeySetsOwner(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(map[string]string{"secret": "alice"})(echoOwnerHandler(t, &owner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if owner != "alice" {
		t.Errorf("expected owner alice, got %q", owner)
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	var owner string
	handler := BearerAuthMiddleware(map[string]string{"secret": "alice"})(echoOwnerHandler(t, &owner))

	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected %s to bypass auth, got %d", path, rec.Code)
		}
	}
}
