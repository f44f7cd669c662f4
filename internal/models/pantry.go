package models

import (
	"database/sql"
	"fmt"
)

type PantryModelInterface interface {
	Get(userID int) ([]*Ingredient, error)
	Replace(userID int, ingredientIDs []int) error
}

type PantryModel struct {
	DB *sql.DB
}

func (m *PantryModel) Get(userID int) ([]*Ingredient, error) {
	query := `SELECT i.id, i.name, i.category
FROM ingredients i
JOIN user_pantry up ON i.id = up.ingredient_id
WHERE up.user_id = ?
ORDER BY i.category, i.name`

	rows, err := m.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// Replace swaps the user's pantry for ingredientIDs in a single transaction.
// It returns ErrNoRecord when the user no longer exists.
func (m *PantryModel) Replace(userID int, ingredientIDs []int) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT true FROM users WHERE id = ?)`, userID).Scan(&exists)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("row scan error: %w", err)
	}
	if !exists {
		tx.Rollback()
		return ErrNoRecord
	}

	if _, err := tx.Exec(`DELETE FROM user_pantry WHERE user_id = ?`, userID); err != nil {
		tx.Rollback()
		return err
	}

	insert, err := tx.Prepare(`INSERT IGNORE INTO user_pantry (user_id, ingredient_id) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer insert.Close()

	for _, id := range ingredientIDs {
		if _, err := insert.Exec(userID, id); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
