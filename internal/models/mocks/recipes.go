package mocks

import "github.com/mabego/smartpantry-mysql/internal/models"

type RecipeModel struct{}

func (m *RecipeModel) Recommend(userID int) ([]*models.Recommendation, error) {
	return []*models.Recommendation{
		{
			ID:                 1,
			Title:              "Aloo Paratha",
			MatchScore:         50,
			MissingCount:       1,
			MissingIngredients: []string{"potato"},
		},
	}, nil
}

func (m *RecipeModel) Get(userID, recipeID int) (*models.Recipe, error) {
	if recipeID != 1 {
		return nil, models.ErrNoRecord
	}

	return &models.Recipe{
		ID:           1,
		Title:        "Aloo Paratha",
		Instructions: "Knead, stuff, roll and cook.",
		Category:     "Breakfast",
		IsVegetarian: true,
		Ingredients: []*models.RecipeIngredient{
			{Name: "atta", Matched: true},
			{Name: "potato", Matched: false},
		},
	}, nil
}
