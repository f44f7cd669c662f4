package models

import (
	"math"
	"sort"
)

// Rank scores every candidate against the owned ingredient ids and returns the best
// MaxRecommendations, highest match score first. Ties keep candidate order.
func Rank(owned map[int]bool, candidates []*Candidate) []*Recommendation {
	recommendations := make([]*Recommendation, 0, len(candidates))

	for _, c := range candidates {
		matched := map[int]bool{}
		missing := []string{}

		for i, id := range c.IngredientIDs {
			if owned[id] {
				matched[id] = true
				continue
			}
			missing = append(missing, c.IngredientNames[i])
		}

		var score float64
		if len(c.IngredientIDs) > 0 {
			score = math.Round(float64(len(matched))/float64(len(c.IngredientIDs))*100*100) / 100
		}

		preview := missing
		if len(preview) > MissingPreview {
			preview = preview[:MissingPreview]
		}

		recommendations = append(recommendations, &Recommendation{
			ID:                 c.ID,
			Title:              c.Title,
			ImageURL:           c.ImageURL,
			IsVegetarian:       c.IsVegetarian,
			Category:           c.Category,
			MatchScore:         score,
			MissingCount:       len(missing),
			MissingIngredients: preview,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}

	return recommendations
}
