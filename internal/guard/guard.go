// Package guard decides whether a page load may proceed and which navigation links a page shows.
//
// The decision depends only on whether a non-empty session token is present, never on what it says.
package guard

import (
	"context"
	"io"
	"slices"
)

// TokenKey is the storage key holding the session token.
const TokenKey = "token"

const (
	RootPath    = "/"
	LoginPath   = "/auth"
	PantryPath  = "/pantry-page"
	RecipesPath = "/recipes-page"
	LogoutPath  = "/logout"

	// ContainerID names the element (and template) the navigation is rendered into.
	ContainerID = "nav-links"
)

// Storage is a key-value store holding the session token.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Delete(ctx context.Context, key string)
}

// Config configures a Guard. Zero values fall back to the package defaults.
type Config struct {
	PublicPaths []string
	LoginPath   string
	Renderer    Renderer
}

type Guard struct {
	publicPaths []string
	loginPath   string
	renderer    Renderer
}

// Outcome is the result of evaluating a single page load.
type Outcome struct {
	Authenticated bool
	// Redirect is the path to navigate to, or empty when the page may be shown.
	Redirect  string
	RenderNav bool
	Links     []Link
}

func New(cfg Config) *Guard {
	g := &Guard{
		publicPaths: cfg.PublicPaths,
		loginPath:   cfg.LoginPath,
		renderer:    cfg.Renderer,
	}
	if g.publicPaths == nil {
		g.publicPaths = []string{LoginPath, RootPath}
	}
	if g.loginPath == "" {
		g.loginPath = LoginPath
	}
	if g.renderer == nil {
		g.renderer = HTMLRenderer{}
	}

	return g
}

var defaultGuard = New(Config{})

// InitPageGuard evaluates a page load with the default allow-list and login path.
func InitPageGuard(currentPath string, hasToken, containerPresent bool) Outcome {
	return defaultGuard.Evaluate(currentPath, hasToken, containerPresent)
}

// LoginTarget returns the path unauthenticated visitors are sent to.
func (g *Guard) LoginTarget() string {
	return g.loginPath
}

// IsPublic reports whether path is on the allow-list. Membership is exact string equality:
// "/auth/" and "/?next=x" are not public.
func (g *Guard) IsPublic(path string) bool {
	return slices.Contains(g.publicPaths, path)
}

// Evaluate decides the outcome of loading currentPath.
func (g *Guard) Evaluate(currentPath string, hasToken, containerPresent bool) Outcome {
	out := Outcome{Authenticated: hasToken}

	if !hasToken && !g.IsPublic(currentPath) {
		out.Redirect = g.loginPath
	}

	if !containerPresent {
		return out
	}

	out.RenderNav = true
	out.Links = NavLinks(hasToken)

	return out
}

// Page describes one page load.
type Page struct {
	Path      string
	CSRFToken string
	// Nav receives the rendered navigation. It is nil when the page has no container.
	Nav io.Writer
}

// Load reads the token from store, evaluates the page and, when the page has a container,
// renders the navigation into it. Without a container nothing is written.
func (g *Guard) Load(ctx context.Context, page Page, store Storage) (Outcome, error) {
	out := g.Evaluate(page.Path, HasToken(ctx, store), page.Nav != nil)
	if !out.RenderNav {
		return out, nil
	}

	view := View{Links: out.Links, CurrentPath: page.Path, CSRFToken: page.CSRFToken}
	if err := g.renderer.Render(page.Nav, view); err != nil {
		return out, err
	}

	return out, nil
}

// HasToken reports whether store holds a token. An empty value counts as no token.
func HasToken(ctx context.Context, store Storage) bool {
	token, ok := store.Get(ctx, TokenKey)
	return ok && token != ""
}

// Logout deletes the token from store and returns the path to navigate to.
func (g *Guard) Logout(ctx context.Context, store Storage) string {
	store.Delete(ctx, TokenKey)
	return g.loginPath
}
