package models

import "database/sql"

type IngredientModelInterface interface {
	All() ([]*Ingredient, error)
}

type Ingredient struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type IngredientModel struct {
	DB *sql.DB
}

// All returns every ingredient ordered by category, then name.
func (m *IngredientModel) All() ([]*Ingredient, error) {
	query := `SELECT id, name, category FROM ingredients ORDER BY category, name`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIngredients(rows)
}

func scanIngredients(rows *sql.Rows) ([]*Ingredient, error) {
	ingredients := []*Ingredient{}

	for rows.Next() {
		i := &Ingredient{}
		if err := rows.Scan(&i.ID, &i.Name, &i.Category); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ingredients, nil
}

// GroupByCategory splits ingredients into categories, keeping the order in which categories and
// ingredients first appear.
func GroupByCategory(ingredients []*Ingredient) []*IngredientGroup {
	var groups []*IngredientGroup
	index := map[string]*IngredientGroup{}

	for _, i := range ingredients {
		g, ok := index[i.Category]
		if !ok {
			g = &IngredientGroup{Category: i.Category}
			index[i.Category] = g
			groups = append(groups, g)
		}
		g.Ingredients = append(g.Ingredients, i)
	}

	return groups
}

type IngredientGroup struct {
	Category    string
	Ingredients []*Ingredient
}
