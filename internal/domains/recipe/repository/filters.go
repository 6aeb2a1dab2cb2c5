package repository

import (
	"fmt"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/shared/utils"
)

// buildSearchWhere constructs the WHERE clause for a recipe search.
// Each filter is independently appendable; adding a new one never
// requires touching the existing predicates.
// Returns the clause (empty when no filter is set) and the positional args.
func buildSearchWhere(filter *model.SearchFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.RecipeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.id = $%d", argIndex))
		args = append(args, *filter.RecipeID)
		argIndex++
	}

	// Case-insensitive substring match
	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf("r.title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Title+"%")
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("r.category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.IsVeggie != nil {
		conditions = append(conditions, fmt.Sprintf("r.is_veggie = $%d", argIndex))
		args = append(args, *filter.IsVeggie)
		argIndex++
	}

	if filter.Season != "" {
		conditions = append(conditions, fmt.Sprintf("r.season = $%d", argIndex))
		args = append(args, filter.Season)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + utils.JoinWithAnd(conditions), args
}
