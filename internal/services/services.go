package services

import (
	"context"

	"github.com/desertthunder/cocktailparty/internal/models"
)

// CocktailService is a read-only cocktail catalog.
type CocktailService interface {
	// ListIngredients returns every known ingredient in display order.
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)

	// FilterByIngredient returns the drinks made with ingredient. No matches is an empty slice.
	FilterByIngredient(ctx context.Context, ingredient string) ([]models.Cocktail, error)

	// LookupCocktail returns the full recipe for a drink id.
	LookupCocktail(ctx context.Context, id string) (*models.Cocktail, error)

	// RecipeURL returns the public web page of a drink.
	RecipeURL(id string) string

	// Name returns the name of the catalog (e.g., "TheCocktailDB")
	Name() string
}
