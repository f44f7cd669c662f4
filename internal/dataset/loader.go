package dataset

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	defaultTitle        = "Unknown Recipe"
	defaultInstructions = "No instructions provided."
	defaultCategory     = "Main Course"
)

var ingredientSplitRX = regexp.MustCompile(`,|\n`)

var ErrNoHeader = errors.New("dataset: missing header row")

// Recipe is one parsed CSV row.
type Recipe struct {
	Title        string
	Instructions string
	ImageURL     string
	Category     string
	IsVegetarian bool
	PrepTime     string
	Cuisine      string
	Ingredients  []string
}

// Store persists parsed recipes. Writes become visible only after Commit.
type Store interface {
	InsertRecipe(r *Recipe) (int, error)
	UpsertIngredient(name, category string) (int, error)
	LinkIngredient(recipeID, ingredientID int) error
	Commit() error
	Rollback() error
}

// Stats summarizes a load.
type Stats struct {
	Recipes     int
	Ingredients int
	Skipped     int
}

// Parse reads recipes from CSV. Columns are matched by header name; both the lower-case dataset
// names (name, ingredients, course...) and the title-case ones (Title, Ingredients, Category...)
// are accepted.
func Parse(r io.Reader) ([]*Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}

	columns := map[string]int{}
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	field := func(record []string, def string, names ...string) string {
		for _, n := range names {
			if i, ok := columns[n]; ok && i < len(record) {
				return record[i]
			}
		}
		return def
	}

	var recipes []*Recipe

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv record: %w", err)
		}

		recipe := &Recipe{
			Title:        field(record, defaultTitle, "name", "Title"),
			Instructions: field(record, defaultInstructions, "instructions", "Instructions"),
			ImageURL:     field(record, "", "image_url", "Image_Name"),
			Category:     field(record, defaultCategory, "course", "Category"),
			IsVegetarian: strings.Contains(strings.ToLower(field(record, "", "diet")), "vegetarian"),
			PrepTime:     field(record, "", "prep_time"),
			Cuisine:      field(record, "", "cuisine"),
		}

		for _, part := range ingredientSplitRX.Split(field(record, "", "ingredients", "Ingredients"), -1) {
			if part = strings.TrimSpace(part); part != "" {
				recipe.Ingredients = append(recipe.Ingredients, part)
			}
		}

		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// Load writes recipes to the store, normalizing and categorizing their ingredients. It commits
// once every recipe is written and rolls back on the first failure.
func Load(store Store, recipes []*Recipe) (Stats, error) {
	stats, err := write(store, recipes)
	if err != nil {
		store.Rollback()
		return stats, err
	}

	if err := store.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}

	return stats, nil
}

func write(store Store, recipes []*Recipe) (Stats, error) {
	var stats Stats
	seen := map[string]bool{}

	for _, r := range recipes {
		recipeID, err := store.InsertRecipe(r)
		if err != nil {
			return stats, fmt.Errorf("insert recipe %q: %w", r.Title, err)
		}
		stats.Recipes++

		for _, raw := range r.Ingredients {
			name, ok := Normalize(raw)
			if !ok {
				stats.Skipped++
				continue
			}

			ingredientID, err := store.UpsertIngredient(name, Categorize(name))
			if err != nil {
				return stats, fmt.Errorf("upsert ingredient %q: %w", name, err)
			}
			if !seen[name] {
				seen[name] = true
				stats.Ingredients++
			}

			if err := store.LinkIngredient(recipeID, ingredientID); err != nil {
				return stats, fmt.Errorf("link ingredient %q: %w", name, err)
			}
		}
	}

	return stats, nil
}

// SQLStore writes recipes to MySQL inside a single transaction.
type SQLStore struct {
	tx *sql.Tx
}

// NewSQLStore begins the transaction the load runs in.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &SQLStore{tx: tx}, nil
}

func (s *SQLStore) Commit() error {
	return s.tx.Commit()
}

func (s *SQLStore) Rollback() error {
	return s.tx.Rollback()
}

func (s *SQLStore) InsertRecipe(r *Recipe) (int, error) {
	statement := `INSERT INTO recipes (title, instructions, image_url, category, is_vegetarian, prep_time, cuisine)
VALUES(?, ?, ?, ?, ?, ?, ?)`

	result, err := s.tx.Exec(statement, r.Title, r.Instructions, r.ImageURL, r.Category, r.IsVegetarian,
		r.PrepTime, r.Cuisine)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

// UpsertIngredient inserts the ingredient or updates its category, returning its id either way.
func (s *SQLStore) UpsertIngredient(name, category string) (int, error) {
	statement := `INSERT INTO ingredients (name, category) VALUES(?, ?)
ON DUPLICATE KEY UPDATE category = VALUES(category), id = LAST_INSERT_ID(id)`

	result, err := s.tx.Exec(statement, name, category)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

func (s *SQLStore) LinkIngredient(recipeID, ingredientID int) error {
	_, err := s.tx.Exec(`INSERT IGNORE INTO recipe_ingredients (recipe_id, ingredient_id) VALUES(?, ?)`,
		recipeID, ingredientID)
	return err
}
