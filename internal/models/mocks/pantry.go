package mocks

import "github.com/mabego/smartpantry-mysql/internal/models"

var mockIngredients = []*models.Ingredient{
	{ID: 1, Name: "onion", Category: "Quick Kitchen"},
	{ID: 2, Name: "paneer", Category: "Quick Kitchen"},
	{ID: 3, Name: "saffron", Category: "All"},
}

type IngredientModel struct{}

func (m *IngredientModel) All() ([]*models.Ingredient, error) {
	return mockIngredients, nil
}

// PantryModel records the last replacement so tests can inspect it.
type PantryModel struct {
	Saved []int
}

func (m *PantryModel) Get(userID int) ([]*models.Ingredient, error) {
	if userID != MockUserID {
		return []*models.Ingredient{}, nil
	}

	return mockIngredients[:1], nil
}

func (m *PantryModel) Replace(userID int, ingredientIDs []int) error {
	if userID != MockUserID {
		return models.ErrNoRecord
	}

	m.Saved = ingredientIDs
	return nil
}
