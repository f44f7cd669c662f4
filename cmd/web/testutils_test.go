package main

import (
	"bytes"
	"html"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/form/v4"
	"github.com/mabego/smartpantry-mysql/internal/guard"
	"github.com/mabego/smartpantry-mysql/internal/models/mocks"
	"github.com/mabego/smartpantry-mysql/internal/tokens"
)

// csrfTokenRX captures the CSRF token value from a rendered form.
var csrfTokenRX = regexp.MustCompile(`<input type="hidden" name="csrf_token" value="(.+)">`)

func extractCSRFToken(t *testing.T, body string) string {
	t.Helper()

	matches := csrfTokenRX.FindStringSubmatch(body)
	if len(matches) < 2 {
		t.Fatal("no csrf token found in body")
	}

	return html.UnescapeString(matches[1])
}

// newTestApplication creates an instance of the application struct with mock data.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	templateCache, err := newTemplateCache()
	if err != nil {
		t.Fatal(err)
	}

	tokenManager, err := tokens.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = SessionLifetime
	sessionManager.Cookie.Secure = true

	return &application{
		errorLog:       log.New(io.Discard, "", 0),
		infoLog:        log.New(io.Discard, "", 0),
		users:          &mocks.UserModel{},
		ingredients:    &mocks.IngredientModel{},
		pantry:         &mocks.PantryModel{},
		recipes:        &mocks.RecipeModel{},
		templateCache:  templateCache,
		formDecoder:    form.NewDecoder(),
		sessionManager: sessionManager,
		tokenStore:     &sessionStorage{sessionManager: sessionManager},
		guard:          guard.New(guard.Config{}),
		tokens:         tokenManager,
	}
}

// A custom testServer type that embeds an httptest.Server instance.
type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewTLSServer(h)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	ts.Client().Jar = jar

	// Return redirects to the test instead of following them.
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, req *http.Request) (int, http.Header, string) {
	t.Helper()

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatal(err)
	}

	return rs.StatusCode, rs.Header, string(bytes.TrimSpace(body))
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+urlPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	return ts.do(t, req)
}

func (ts *testServer) postForm(t *testing.T, urlPath string, form url.Values) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL+urlPath, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return ts.do(t, req)
}

// sendJSON sends a JSON API request, with a bearer token when one is given.
func (ts *testServer) sendJSON(t *testing.T, method, urlPath, token, body string) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+urlPath, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

// login signs in the mock user through the login form and returns a fresh CSRF token.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	_, _, body := ts.get(t, "/auth")

	form := url.Values{}
	form.Add("email", mocks.MockEmail)
	form.Add("password", mocks.MockPassword)
	form.Add("csrf_token", extractCSRFToken(t, body))

	code, header, _ := ts.postForm(t, "/auth/login", form)
	if code != http.StatusSeeOther || header.Get("Location") != guard.PantryPath {
		t.Fatalf("login failed: %d %s", code, header.Get("Location"))
	}

	_, _, body = ts.get(t, "/pantry-page")

	return extractCSRFToken(t, body)
}
