package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mabego/smartpantry-mysql/internal/models"
	"github.com/mabego/smartpantry-mysql/internal/validator"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pantryRequest struct {
	IngredientIDs []int `json:"ingredient_ids"`
}

func (app *application) apiRegister(w http.ResponseWriter, r *http.Request) {
	var input credentials

	if err := app.readJSON(w, r, &input); err != nil {
		app.writeMessage(w, http.StatusBadRequest, "Request body must be JSON")
		return
	}

	if !validator.NotBlank(input.Email) || !validator.NotBlank(input.Password) {
		app.writeMessage(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	err := app.users.Insert(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			app.writeMessage(w, http.StatusBadRequest, "User already exists")
		} else {
			app.serverError(w, err)
		}
		return
	}

	app.writeMessage(w, http.StatusCreated, "User created successfully")
}

func (app *application) apiLogin(w http.ResponseWriter, r *http.Request) {
	var input credentials

	if err := app.readJSON(w, r, &input); err != nil {
		app.writeMessage(w, http.StatusBadRequest, "Request body must be JSON")
		return
	}

	id, err := app.users.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			app.writeMessage(w, http.StatusUnauthorized, "Bad email or password")
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

	app.writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (app *application) apiIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := app.ingredients.All()
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, ingredients)
}

func (app *application) apiPantry(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.apiUserID(r)
	if !ok {
		app.writeMessage(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}

	pantry, err := app.pantry.Get(userID)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, pantry)
}

func (app *application) apiPantryPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.apiUserID(r)
	if !ok {
		app.writeMessage(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}

	var input pantryRequest

	if err := app.readJSON(w, r, &input); err != nil {
		app.writeMessage(w, http.StatusBadRequest, "Request body must be JSON")
		return
	}

	if !validator.AllPositive(input.IngredientIDs) {
		app.writeMessage(w, http.StatusBadRequest, "Ingredient ids must be positive")
		return
	}

	err := app.pantry.Replace(userID, input.IngredientIDs)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.writeMessage(w, http.StatusUnauthorized, "Session expired or user deleted. Please log in again.")
			return
		}

		app.errorLog.Printf("pantry save: %v", err)
		app.writeMessage(w, http.StatusInternalServerError, "Error saving pantry")
		return
	}

	app.writeMessage(w, http.StatusOK, "Pantry updated")
}

func (app *application) apiRecommend(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.apiUserID(r)
	if !ok {
		app.writeMessage(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}

	recommendations, err := app.recipes.Recommend(userID)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, recommendations)
}

func (app *application) apiRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.apiUserID(r)
	if !ok {
		app.writeMessage(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}

	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil || id < 1 {
		app.writeMessage(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := app.recipes.Get(userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.writeMessage(w, http.StatusNotFound, "Recipe not found")
		} else {
			app.serverError(w, err)
		}
		return
	}

	app.writeJSON(w, http.StatusOK, recipe)
}
