package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/services"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// RecipeOpts contains configuration for [FetchRecipes].
type RecipeOpts struct {
	NumWorkers int // Concurrent lookups (default: 3, max: 8)
}

// RecipeResult maps drink ids to their recipes and to the errors of failed lookups.
type RecipeResult struct {
	Recipes map[string]*models.Cocktail
	Failed  map[string]error
}

// FetchRecipes looks up every item concurrently. The service is expected to apply its own rate limit.
func FetchRecipes(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	svc services.CocktailService,
	items []models.FavoriteItem,
	opts RecipeOpts,
) (*RecipeResult, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: cocktail service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	unique := make([]models.FavoriteItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			unique = append(unique, item)
		}
	}

	type lookup struct {
		item   models.FavoriteItem
		recipe *models.Cocktail
		err    error
	}

	jobs := make(chan models.FavoriteItem)
	results := make(chan lookup, len(unique))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				recipe, err := svc.LookupCocktail(ctx, item.ID)
				results <- lookup{item: item, recipe: recipe, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range unique {
			select {
			case <-ctx.Done():
				return
			case jobs <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &RecipeResult{
		Recipes: make(map[string]*models.Cocktail, len(unique)),
		Failed:  make(map[string]error),
	}

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.Failed[res.item.ID] = res.err
			sendProgress(prog, recipeFailedUpdate(completed, len(unique), res.item.Name, res.err))
			continue
		}
		result.Recipes[res.item.ID] = res.recipe
		sendProgress(prog, recipeFetchedUpdate(completed, len(unique), res.item.Name))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
