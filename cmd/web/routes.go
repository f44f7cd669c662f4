package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/mabego/smartpantry-mysql/ui"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// Set the custom handler for 404 responses through httprouter.
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.notFound(w)
	})

	fileServer := http.FileServer(http.FS(ui.Files))
	router.Handler(http.MethodGet, "/static/*filepath", fileServer)

	router.HandlerFunc(http.MethodGet, "/ping", ping)

	// Session-aware routes that are not page loads: form submissions and the nav fragment.
	dynamic := alice.New(app.sessionManager.LoadAndSave, noSurf)

	router.Handler(http.MethodPost, "/auth/login", dynamic.ThenFunc(app.userLoginPost))
	router.Handler(http.MethodPost, "/auth/register", dynamic.ThenFunc(app.userRegisterPost))
	router.Handler(http.MethodPost, "/logout", dynamic.ThenFunc(app.userLogoutPost))
	router.Handler(http.MethodGet, "/nav-links", dynamic.ThenFunc(app.navFragment))

	// Every page load passes the guard, which sends visitors without a token to the login page.
	pages := dynamic.Append(app.guardPages)

	router.Handler(http.MethodGet, "/", pages.ThenFunc(app.home))
	router.Handler(http.MethodGet, "/auth", pages.ThenFunc(app.authPage))
	router.Handler(http.MethodGet, "/pantry-page", pages.ThenFunc(app.pantryPage))
	router.Handler(http.MethodPost, "/pantry-page", pages.ThenFunc(app.pantryPagePost))
	router.Handler(http.MethodGet, "/recipes-page", pages.ThenFunc(app.recipesPage))
	router.Handler(http.MethodGet, "/recipe-page/:id", pages.ThenFunc(app.recipePage))

	// The JSON API authenticates with a bearer token instead of the session.
	router.HandlerFunc(http.MethodPost, "/register", app.apiRegister)
	router.HandlerFunc(http.MethodPost, "/login", app.apiLogin)

	api := alice.New(app.requireBearer)

	router.Handler(http.MethodGet, "/ingredients", api.ThenFunc(app.apiIngredients))
	router.Handler(http.MethodGet, "/pantry", api.ThenFunc(app.apiPantry))
	router.Handler(http.MethodPost, "/pantry", api.ThenFunc(app.apiPantryPost))
	router.Handler(http.MethodGet, "/recommend", api.ThenFunc(app.apiRecommend))
	router.Handler(http.MethodGet, "/recipe/:id", api.ThenFunc(app.apiRecipe))

	standard := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	return standard.Then(router)
}
