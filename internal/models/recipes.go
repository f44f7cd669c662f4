package models

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

const (
	// MaxRecommendations caps the recommendation list.
	MaxRecommendations = 20
	// MissingPreview is how many missing ingredient names a recommendation lists.
	MissingPreview = 3
)

type RecipeModelInterface interface {
	Recommend(userID int) ([]*Recommendation, error)
	Get(userID, recipeID int) (*Recipe, error)
}

type Recipe struct {
	ID           int                 `json:"id"`
	Title        string              `json:"title"`
	Instructions string              `json:"instructions"`
	ImageURL     string              `json:"image_url"`
	Category     string              `json:"category"`
	IsVegetarian bool                `json:"is_vegetarian"`
	PrepTime     string              `json:"prep_time"`
	Cuisine      string              `json:"cuisine"`
	Ingredients  []*RecipeIngredient `json:"ingredients"`
}

// RecipeIngredient is an ingredient of a recipe and whether the viewing user owns it.
type RecipeIngredient struct {
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
}

type Recommendation struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	ImageURL           string   `json:"image_url"`
	IsVegetarian       bool     `json:"is_vegetarian"`
	Category           string   `json:"category"`
	MatchScore         float64  `json:"match_score"`
	MissingCount       int      `json:"missing_count"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// Candidate is a recipe with its full ingredient list, the input to Rank.
type Candidate struct {
	ID              int
	Title           string
	ImageURL        string
	IsVegetarian    bool
	Category        string
	IngredientIDs   []int
	IngredientNames []string
}

type RecipeModel struct {
	DB *sql.DB
}

func (m *RecipeModel) Recommend(userID int) ([]*Recommendation, error) {
	owned, err := m.pantryIDs(userID)
	if err != nil {
		return nil, err
	}

	if len(owned) == 0 {
		return []*Recommendation{}, nil
	}

	query := `SELECT r.id, r.title, r.image_url, r.is_vegetarian, r.category, i.id, i.name
FROM recipes r
JOIN recipe_ingredients ri ON r.id = ri.recipe_id
JOIN ingredients i ON ri.ingredient_id = i.id
ORDER BY r.id, i.id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		candidates []*Candidate
		current    *Candidate
	)

	for rows.Next() {
		var (
			c              Candidate
			ingredientID   int
			ingredientName string
		)

		err = rows.Scan(&c.ID, &c.Title, &c.ImageURL, &c.IsVegetarian, &c.Category, &ingredientID, &ingredientName)
		if err != nil {
			return nil, err
		}

		if current == nil || current.ID != c.ID {
			current = &c
			candidates = append(candidates, current)
		}
		current.IngredientIDs = append(current.IngredientIDs, ingredientID)
		current.IngredientNames = append(current.IngredientNames, ingredientName)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return Rank(owned, candidates), nil
}

func (m *RecipeModel) pantryIDs(userID int) (map[int]bool, error) {
	rows, err := m.DB.Query(`SELECT ingredient_id FROM user_pantry WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := map[int]bool{}

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return owned, nil
}

func (m *RecipeModel) Get(userID, recipeID int) (*Recipe, error) {
	r := &Recipe{}

	query := `SELECT id, title, instructions, image_url, category, is_vegetarian, prep_time, cuisine
FROM recipes WHERE id = ?`

	err := m.DB.QueryRow(query, recipeID).Scan(&r.ID, &r.Title, &r.Instructions, &r.ImageURL, &r.Category,
		&r.IsVegetarian, &r.PrepTime, &r.Cuisine)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}

	query = `SELECT i.name,
	EXISTS(SELECT true FROM user_pantry up WHERE up.user_id = ? AND up.ingredient_id = i.id)
FROM ingredients i
JOIN recipe_ingredients ri ON i.id = ri.ingredient_id
WHERE ri.recipe_id = ?
ORDER BY i.id`

	rows, err := m.DB.Query(query, userID, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r.Ingredients = []*RecipeIngredient{}

	for rows.Next() {
		ri := &RecipeIngredient{}
		if err := rows.Scan(&ri.Name, &ri.Matched); err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		r.Ingredients = append(r.Ingredients, ri)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	MatchedFirst(r.Ingredients)

	return r, nil
}

// MatchedFirst moves owned ingredients ahead of missing ones, keeping the order within each group.
func MatchedFirst(ingredients []*RecipeIngredient) {
	sort.SliceStable(ingredients, func(i, j int) bool {
		return ingredients[i].Matched && !ingredients[j].Matched
	})
}
