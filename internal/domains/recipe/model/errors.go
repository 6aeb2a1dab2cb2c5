package model

import "errors"

var (
	// ErrRecipeNotFound - operation referenced a recipe id that does not exist
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrImageNotFound - operation referenced an image id that does not exist
	ErrImageNotFound = errors.New("image not found")

	// ErrIngredientConflict - ingredient uniqueness race persisted past the retry
	ErrIngredientConflict = errors.New("ingredient name conflict")
)
