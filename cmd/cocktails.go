package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: <%s> is required", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// IngredientsList prints every ingredient, optionally filtered by substring.
func (r *Runner) IngredientsList(ctx context.Context, cmd *cli.Command) error {
	ingredients, err := r.cocktails.ListIngredients(ctx)
	if err != nil {
		return err
	}

	if f := strings.ToLower(strings.TrimSpace(cmd.String("filter"))); f != "" {
		kept := ingredients[:0:0]
		for _, ing := range ingredients {
			if strings.Contains(strings.ToLower(ing.Name), f) {
				kept = append(kept, ing)
			}
		}
		ingredients = kept
	}

	if cmd.Bool("json") {
		if ingredients == nil {
			ingredients = []models.Ingredient{}
		}
		return r.writeJSON(ingredients, true)
	}

	for _, ing := range ingredients {
		r.writePlain("%s\n", ing.Name)
	}
	r.logger.Debug("listed ingredients", "count", len(ingredients))
	return nil
}

// CocktailsSearch lists drinks made with an ingredient, marking saved ones.
func (r *Runner) CocktailsSearch(ctx context.Context, cmd *cli.Command) error {
	ingredient, err := requireArg(cmd, "ingredient")
	if err != nil {
		return err
	}
	store, _, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	drinks, err := r.cocktails.FilterByIngredient(ctx, ingredient)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type result struct {
			models.Cocktail
			IsFavorite bool `json:"isFavorite"`
		}
		out := make([]result, 0, len(drinks))
		for _, d := range drinks {
			out = append(out, result{d, store.IsFavorite(d.ID)})
		}
		return r.writeJSON(out, true)
	}

	if len(drinks) == 0 {
		return r.writePlain("No cocktails found with %s\n", ingredient)
	}

	r.writePlainHeader(fmt.Sprintf("Cocktails with %s (%d)", ingredient, len(drinks)))
	for _, d := range drinks {
		mark := " "
		if store.IsFavorite(d.ID) {
			mark = "♥"
		}
		r.writePlain("%s %-8s %s\n", mark, d.ID, d.Name)
	}
	return nil
}

// CocktailsShow prints a recipe.
func (r *Runner) CocktailsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	c, err := r.cocktails.LookupCocktail(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(c, true)
	}

	r.writePlainHeader(c.Name)
	var meta []string
	for _, s := range []string{c.Category, c.Alcoholic, c.Glass} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		r.writePlain("%s\n\n", strings.Join(meta, " • "))
	}
	for _, m := range c.Ingredients {
		r.writePlain("  • %s\n", m.String())
	}
	if c.Instructions != "" {
		r.writePlainln("%s", c.Instructions)
	}
	return r.writePlainln("%s", r.cocktails.RecipeURL(c.ID))
}

// CocktailsOpen opens the recipe page in the default browser.
func (r *Runner) CocktailsOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	url := r.cocktails.RecipeURL(id)
	if err := r.openBrowser(url); err != nil {
		r.writePlain("Open this page manually: %s\n", url)
		return err
	}
	return r.writePlain("✓ Opened %s\n", url)
}
