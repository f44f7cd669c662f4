package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mabego/smartpantry-mysql/internal/assert"
	"github.com/mabego/smartpantry-mysql/internal/guard"
)

func TestSecureHeaders(t *testing.T) {
	rr := httptest.NewRecorder()

	r, err := http.NewRequest(http.MethodGet, "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	secureHeaders(next).ServeHTTP(rr, r)

	rs := rr.Result()

	assert.Equal(t, rs.Header.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Equal(t, rs.Header.Get("Referrer-Policy"), "origin-when-cross-origin")
	assert.Equal(t, rs.Header.Get("X-Content-Type-Options"), "nosniff")
	assert.Equal(t, rs.Header.Get("X-Frame-Options"), "deny")
	assert.Equal(t, rs.Header.Get("X-XSS-Protection"), "0")
	assert.Equal(t, rs.StatusCode, http.StatusOK)
	assert.Equal(t, rr.Body.String(), "OK")
}

// sessionContext returns a context carrying a fresh scs session.
func sessionContext(t *testing.T, app *application) context.Context {
	t.Helper()

	ctx, err := app.sessionManager.Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	return ctx
}

func TestGuardPages(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		token        string
		wantCode     int
		wantLocation string
		wantNoStore  bool
	}{
		{name: "Pantry without token", path: "/pantry-page", wantCode: http.StatusSeeOther, wantLocation: "/auth"},
		{name: "Recipe without token", path: "/recipe-page/1", wantCode: http.StatusSeeOther, wantLocation: "/auth"},
		{name: "Auth without token", path: "/auth", wantCode: http.StatusOK},
		{name: "Root without token", path: "/", wantCode: http.StatusOK},
		{name: "Auth with trailing slash", path: "/auth/", wantCode: http.StatusSeeOther, wantLocation: "/auth"},
		{name: "Pantry with token", path: "/pantry-page", token: "abc123", wantCode: http.StatusOK, wantNoStore: true},
		{name: "Auth with token", path: "/auth", token: "abc123", wantCode: http.StatusOK},
	}

	app := newTestApplication(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := sessionContext(t, app)
			if tt.token != "" {
				app.tokenStore.Set(ctx, guard.TokenKey, tt.token)
			}

			r := httptest.NewRequest(http.MethodGet, tt.path, nil).WithContext(ctx)
			rr := httptest.NewRecorder()

			var authenticated bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authenticated = app.isAuthenticated(r)
				w.Write([]byte("OK"))
			})

			app.guardPages(next).ServeHTTP(rr, r)

			assert.Equal(t, rr.Code, tt.wantCode)
			assert.Equal(t, rr.Header().Get("Location"), tt.wantLocation)
			assert.Equal(t, rr.Header().Get("Cache-Control") == "no-store", tt.wantNoStore)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, authenticated, tt.token != "")
			}
		})
	}
}

func TestRequireBearer(t *testing.T) {
	app := newTestApplication(t)

	valid, err := app.tokens.Issue(7)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "Valid", header: "Bearer " + valid, wantCode: http.StatusOK},
		{name: "Missing", header: "", wantCode: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + valid, wantCode: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer abc123", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/pantry", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			var userID int
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID, _ = app.apiUserID(r)
			})

			app.requireBearer(next).ServeHTTP(rr, r)

			assert.Equal(t, rr.Code, tt.wantCode)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, userID, 7)
			}
		})
	}
}
