package main

import (
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mabego/smartpantry-mysql/internal/models"
	"github.com/mabego/smartpantry-mysql/ui"
)

// templateData holds dynamic data to pass to HTML templates.
type templateData struct {
	IsAuthenticated  bool
	CurrentPath      string
	CurrentYear      int
	Flash            string
	CSRFToken        string
	Nav              template.HTML
	Form             any
	Register         any
	IngredientGroups []*models.IngredientGroup
	Owned            map[int]bool
	Recommendations  []*models.Recommendation
	Recipe           *models.Recipe
}

var functions = template.FuncMap{"join": strings.Join}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/*.page.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		patterns := []string{
			"html/base.layout.tmpl",
			"html/*.partial.tmpl",
			page,
		}

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, patterns...)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}
