package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/nosurf"
	"github.com/mabego/smartpantry-mysql/internal/guard"
	"github.com/mabego/smartpantry-mysql/internal/models"
	"github.com/mabego/smartpantry-mysql/internal/validator"
)

const MinPasswordChars = 8

// The struct tags tell the go-playground/form decoder how to map HTML form values into the different struct fields.
type userLoginForm struct {
	Email               string `form:"email"`
	Password            string `form:"password"`
	validator.Validator `form:"-"`
}

type userRegisterForm struct {
	Email               string `form:"email"`
	Password            string `form:"password"`
	validator.Validator `form:"-"`
}

type pantryForm struct {
	IngredientIDs       []int `form:"ingredient_id"`
	validator.Validator `form:"-"`
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)
	app.render(w, r, http.StatusOK, "home.page.tmpl", data)
}

func (app *application) authPage(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)
	data.Form = userLoginForm{}
	data.Register = userRegisterForm{}
	app.render(w, r, http.StatusOK, "auth.page.tmpl", data)
}

// renderAuth redisplays the auth page at /auth with the submitted forms.
func (app *application) renderAuth(w http.ResponseWriter, r *http.Request, login userLoginForm, register userRegisterForm) {
	data := app.newTemplateData(r)
	data.CurrentPath = app.guard.LoginTarget()
	data.Form = login
	data.Register = register
	app.render(w, r, http.StatusUnprocessableEntity, "auth.page.tmpl", data)
}

func (app *application) userLoginPost(w http.ResponseWriter, r *http.Request) {
	var form userLoginForm

	err := app.decodePostForm(r, &form)
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	form.CheckField(validator.NotBlank(form.Email), "email", "This field cannot be blank")
	form.CheckField(validator.Matches(form.Email, validator.EmailRX), "email",
		"This field must be a valid email address")
	form.CheckField(validator.NotBlank(form.Password), "password", "This field cannot be blank")

	if !form.Valid() {
		app.renderAuth(w, r, form, userRegisterForm{})
		return
	}

	id, err := app.users.Authenticate(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			form.AddNonFieldError("Email or password is incorrect")
			app.renderAuth(w, r, form, userRegisterForm{})
		} else {
			app.serverError(w, err)
		}
		return
	}

	token, err := app.tokens.Issue(id)
	if err != nil {
		app.serverError(w, err)
		return
	}

	// RenewToken changes the session ID when the authentication state changes.
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.tokenStore.Set(r.Context(), guard.TokenKey, token)

	http.Redirect(w, r, guard.PantryPath, http.StatusSeeOther)
}

func (app *application) userRegisterPost(w http.ResponseWriter, r *http.Request) {
	var form userRegisterForm

	err := app.decodePostForm(r, &form)
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	form.CheckField(validator.NotBlank(form.Email), "email", "This field cannot be blank")
	form.CheckField(validator.Matches(form.Email, validator.EmailRX), "email",
		"This field must be a valid email address")
	form.CheckField(validator.NotBlank(form.Password), "password", "This field cannot be blank")
	form.CheckField(validator.MinChars(form.Password, MinPasswordChars), "password",
		"This field must be at least 8 characters long")

	if !form.Valid() {
		app.renderAuth(w, r, userLoginForm{}, form)
		return
	}

	err = app.users.Insert(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			form.AddFieldError("email", "Email address is already in use")
			app.renderAuth(w, r, userLoginForm{}, form)
		} else {
			app.serverError(w, err)
		}
		return
	}

	app.sessionManager.Put(r.Context(), "flash", "Your registration was successful. Please log in")

	http.Redirect(w, r, app.guard.LoginTarget(), http.StatusSeeOther)
}

func (app *application) userLogoutPost(w http.ResponseWriter, r *http.Request) {
	err := app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}

	target := app.guard.Logout(r.Context(), app.tokenStore)

	app.sessionManager.Put(r.Context(), "flash", "You've been logged out successfully!")

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (app *application) pantryPage(w http.ResponseWriter, r *http.Request) {
	userID, ok, err := app.sessionUserID(r)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if !ok {
		app.staleSession(w, r)
		return
	}

	ingredients, err := app.ingredients.All()
	if err != nil {
		app.serverError(w, err)
		return
	}

	owned, err := app.pantry.Get(userID)
	if err != nil {
		app.serverError(w, err)
		return
	}

	data := app.newTemplateData(r)
	data.IngredientGroups = models.GroupByCategory(ingredients)
	data.Owned = make(map[int]bool, len(owned))
	for _, i := range owned {
		data.Owned[i.ID] = true
	}

	app.render(w, r, http.StatusOK, "pantry.page.tmpl", data)
}

func (app *application) pantryPagePost(w http.ResponseWriter, r *http.Request) {
	userID, ok, err := app.sessionUserID(r)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if !ok {
		app.staleSession(w, r)
		return
	}

	var form pantryForm

	err = app.decodePostForm(r, &form)
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	if !validator.AllPositive(form.IngredientIDs) {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	err = app.pantry.Replace(userID, form.IngredientIDs)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.staleSession(w, r)
		} else {
			app.serverError(w, err)
		}
		return
	}

	app.sessionManager.Put(r.Context(), "flash", "Pantry updated")

	http.Redirect(w, r, guard.RecipesPath, http.StatusSeeOther)
}

func (app *application) recipesPage(w http.ResponseWriter, r *http.Request) {
	userID, ok, err := app.sessionUserID(r)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if !ok {
		app.staleSession(w, r)
		return
	}

	recommendations, err := app.recipes.Recommend(userID)
	if err != nil {
		app.serverError(w, err)
		return
	}

	data := app.newTemplateData(r)
	data.Recommendations = recommendations

	app.render(w, r, http.StatusOK, "recipes.page.tmpl", data)
}

func (app *application) recipePage(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil || id < 1 {
		app.notFound(w)
		return
	}

	userID, ok, err := app.sessionUserID(r)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if !ok {
		app.staleSession(w, r)
		return
	}

	recipe, err := app.recipes.Get(userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
		} else {
			app.serverError(w, err)
		}
		return
	}

	data := app.newTemplateData(r)
	data.Recipe = recipe

	app.render(w, r, http.StatusOK, "recipe.page.tmpl", data)
}

// navFragment returns the navigation markup for the page named by the "page" query parameter.
// When that page would be guarded the login target is reported in the X-Guard-Redirect header.
func (app *application) navFragment(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = guard.RootPath
	}

	buf := new(bytes.Buffer)

	out, err := app.guard.Load(r.Context(), guard.Page{Path: page, CSRFToken: nosurf.Token(r), Nav: buf},
		app.tokenStore)
	if err != nil {
		app.serverError(w, err)
		return
	}

	if out.Redirect != "" {
		w.Header().Set("X-Guard-Redirect", out.Redirect)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Cache-Control", "no-store")
	buf.WriteTo(w)
}

func ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodGet {
		fmt.Fprintln(w, "OK")
	}
}
