package guard

import (
	"html/template"
	"io"
)

// Link describes one navigation entry. Actions are submitted rather than followed.
type Link struct {
	Label    string
	Target   string
	IsAction bool
}

var (
	pantryLink  = Link{Label: "My Pantry", Target: PantryPath}
	recipesLink = Link{Label: "Recipes", Target: RecipesPath}
	logoutLink  = Link{Label: "Logout", Target: LogoutPath, IsAction: true}
	loginLink   = Link{Label: "Login / Register", Target: LoginPath}
)

// NavLinks returns the navigation entries for the given authentication state.
func NavLinks(isAuthenticated bool) []Link {
	if isAuthenticated {
		return []Link{pantryLink, recipesLink, logoutLink}
	}

	return []Link{loginLink}
}

// View is what a Renderer materializes for one page.
type View struct {
	Links       []Link
	CurrentPath string
	CSRFToken   string
}

// Renderer materializes navigation links.
type Renderer interface {
	Render(w io.Writer, v View) error
}

var navTemplate = template.Must(template.New("nav").Parse(
	`{{range .Links}}{{if .IsAction}}<form action="{{.Target}}" method="POST" class="nav-action">` +
		`{{with $.CSRFToken}}<input type="hidden" name="csrf_token" value="{{.}}">{{end}}` +
		`<button type="submit">{{.Label}}</button></form>` +
		`{{else}}<a href="{{.Target}}" class="nav-link{{if eq .Target $.CurrentPath}} active{{end}}">` +
		`{{.Label}}</a>{{end}}{{end}}`))

// HTMLRenderer renders links as anchors and actions as POST forms. The link to the current page
// is marked active, and a CSRF token, when the view has one, is embedded in every action form.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(w io.Writer, v View) error {
	return navTemplate.Execute(w, v)
}
