package main

import (
	"testing"

	"github.com/mabego/smartpantry-mysql/internal/assert"
	"github.com/mabego/smartpantry-mysql/internal/guard"
)

func TestTemplateCache(t *testing.T) {
	cache, err := newTemplateCache()
	assert.NilError(t, err)

	for _, page := range []string{
		"home.page.tmpl", "auth.page.tmpl", "pantry.page.tmpl", "recipes.page.tmpl", "recipe.page.tmpl",
	} {
		t.Run(page, func(t *testing.T) {
			ts, ok := cache[page]
			assert.Equal(t, ok, true)
			if ok {
				assert.Equal(t, ts.Lookup(guard.ContainerID) != nil, true)
			}
		})
	}
}
