package guard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mabego/smartpantry-mysql/internal/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		hasToken     bool
		wantRedirect string
	}{
		{name: "Protected page without token", path: "/pantry-page", wantRedirect: "/auth"},
		{name: "Recipes page without token", path: "/recipes-page", wantRedirect: "/auth"},
		{name: "Login page without token", path: "/auth"},
		{name: "Root without token", path: "/"},
		{name: "Trailing slash is not public", path: "/auth/", wantRedirect: "/auth"},
		{name: "Query string is not public", path: "/?next=1", wantRedirect: "/auth"},
		{name: "Protected page with token", path: "/pantry-page", hasToken: true},
		{name: "Login page with token", path: "/auth", hasToken: true},
		{name: "Unknown page with token", path: "/anything", hasToken: true},
	}

	g := New(Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := g.Evaluate(tt.path, tt.hasToken, true)
			assert.Equal(t, out.Redirect, tt.wantRedirect)
			assert.Equal(t, out.Authenticated, tt.hasToken)
		})
	}
}

func TestInitPageGuardScenarios(t *testing.T) {
	t.Run("Pantry without token", func(t *testing.T) {
		out := InitPageGuard("/pantry-page", false, true)
		assert.Equal(t, out.Redirect, "/auth")
	})

	t.Run("Auth without token", func(t *testing.T) {
		out := InitPageGuard("/auth", false, true)
		assert.Equal(t, out.Redirect, "")
		assert.Equal(t, len(out.Links), 1)
		assert.Equal(t, out.Links[0], loginLink)
	})

	t.Run("Pantry with token", func(t *testing.T) {
		out := InitPageGuard("/pantry-page", true, true)
		assert.Equal(t, out.Redirect, "")
		assert.Equal(t, len(out.Links), 3)
		assert.Equal(t, out.Links[0], pantryLink)
		assert.Equal(t, out.Links[1], recipesLink)
		assert.Equal(t, out.Links[2], logoutLink)
	})

	t.Run("No container", func(t *testing.T) {
		out := InitPageGuard("/pantry-page", false, false)
		assert.Equal(t, out.Redirect, "/auth")
		assert.Equal(t, out.RenderNav, false)
		assert.Equal(t, len(out.Links), 0)
	})
}

func TestCustomConfig(t *testing.T) {
	g := New(Config{PublicPaths: []string{"/about"}, LoginPath: "/signin"})

	assert.Equal(t, g.IsPublic("/about"), true)
	assert.Equal(t, g.IsPublic("/auth"), false)
	assert.Equal(t, g.Evaluate("/auth", false, false).Redirect, "/signin")
	assert.Equal(t, g.LoginTarget(), "/signin")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	g := New(Config{})

	t.Run("Authenticated", func(t *testing.T) {
		store := NewMemoryStorage()
		store.Set(ctx, TokenKey, "abc123")

		var nav bytes.Buffer
		out, err := g.Load(ctx, Page{Path: "/pantry-page", Nav: &nav}, store)
		assert.NilError(t, err)
		assert.Equal(t, out.Redirect, "")

		body := nav.String()
		assert.StringContains(t, body, `href="/pantry-page"`)
		assert.StringContains(t, body, `href="/recipes-page"`)
		assert.StringContains(t, body, `action="/logout"`)
		assert.StringContains(t, body, `<a href="/pantry-page" class="nav-link active">`)
		assert.NotContains(t, body, `href="/auth"`)
	})

	t.Run("Anonymous", func(t *testing.T) {
		var nav bytes.Buffer
		out, err := g.Load(ctx, Page{Path: "/auth", Nav: &nav}, NewMemoryStorage())
		assert.NilError(t, err)
		assert.Equal(t, out.Redirect, "")

		body := nav.String()
		assert.StringContains(t, body, `href="/auth"`)
		assert.StringContains(t, body, "Login / Register")
		assert.NotContains(t, body, "/pantry-page")
		assert.NotContains(t, body, "/recipes-page")
		assert.NotContains(t, body, "/logout")
	})

	t.Run("Missing container", func(t *testing.T) {
		out, err := g.Load(ctx, Page{Path: "/pantry-page"}, NewMemoryStorage())
		assert.NilError(t, err)
		assert.Equal(t, out.Redirect, "/auth")
		assert.Equal(t, out.RenderNav, false)
	})

	t.Run("Token value is not inspected", func(t *testing.T) {
		store := NewMemoryStorage()
		store.Set(ctx, TokenKey, "not-a-jwt")

		out, err := g.Load(ctx, Page{Path: "/recipes-page", Nav: io.Discard}, store)
		assert.NilError(t, err)
		assert.Equal(t, out.Authenticated, true)
		assert.Equal(t, out.Redirect, "")
	})

	t.Run("Empty token counts as absent", func(t *testing.T) {
		store := NewMemoryStorage()
		store.Set(ctx, TokenKey, "")

		out, err := g.Load(ctx, Page{Path: "/recipes-page", Nav: io.Discard}, store)
		assert.NilError(t, err)
		assert.Equal(t, out.Authenticated, false)
		assert.Equal(t, out.Redirect, "/auth")
	})
}

type failingRenderer struct{}

var errRender = errors.New("render failed")

func (failingRenderer) Render(io.Writer, View) error { return errRender }

func TestLoadRenderError(t *testing.T) {
	g := New(Config{Renderer: failingRenderer{}})

	_, err := g.Load(context.Background(), Page{Path: "/", Nav: io.Discard}, NewMemoryStorage())
	assert.Equal(t, errors.Is(err, errRender), true)

	// A page without a container never reaches the renderer.
	_, err = g.Load(context.Background(), Page{Path: "/"}, NewMemoryStorage())
	assert.NilError(t, err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	g := New(Config{})

	store := NewMemoryStorage()
	store.Set(ctx, TokenKey, "abc123")

	target := g.Logout(ctx, store)
	assert.Equal(t, target, "/auth")

	_, ok := store.Get(ctx, TokenKey)
	assert.Equal(t, ok, false)

	out := g.Evaluate("/pantry-page", ok, true)
	assert.Equal(t, out.Redirect, "/auth")
}

func TestZeroMemoryStorage(t *testing.T) {
	ctx := context.Background()

	var store MemoryStorage
	assert.Equal(t, HasToken(ctx, &store), false)

	store.Set(ctx, TokenKey, "abc123")
	assert.Equal(t, HasToken(ctx, &store), true)

	store.Delete(ctx, TokenKey)
	assert.Equal(t, HasToken(ctx, &store), false)
}
