package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestAuthenticate(t *testing.T) {
	var seen Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := FromContext(r.Context())
		if !ok {
			t.Error("expected caller in context")
		}
		seen = caller
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes valid caller through", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("X-User-Id", id.String())
		req.Header.Set("X-User-Role", "admin")
		rec := httptest.NewRecorder()

		Authenticate(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if seen.ID != id {
			t.Errorf("expected caller id %s, got %s", id, seen.ID)
		}
		if !seen.IsAdmin {
			t.Error("expected admin caller")
		}
	})

	t.Run("customer role is not admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("X-User-Id", uuid.New().String())
		req.Header.Set("X-User-Role", "customer")
		rec := httptest.NewRecorder()

		Authenticate(next).ServeHTTP(rec, req)

		if seen.IsAdmin {
			t.Error("expected non-admin caller")
		}
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rec := httptest.NewRecorder()

		Authenticate(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("X-User-Id", "not-a-uuid")
		rec := httptest.NewRecorder()

		Authenticate(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req = req.WithContext(WithCaller(req.Context(), Caller{ID: uuid.New(), IsAdmin: true}))
		rec := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req = req.WithContext(WithCaller(req.Context(), Caller{ID: uuid.New()}))
		rec := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		rec := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}
