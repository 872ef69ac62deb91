package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/cocktailparty/internal/formatter"
	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the signed-in account's favorites in saved order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	store, user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	items := store.Favorites()
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	if len(items) == 0 {
		return r.writePlain("No favorites yet. Try 'cparty cocktails search <ingredient>'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("%s's favorites (%d)", user.Name, len(items)))
	for i, item := range items {
		r.writePlain("%3d. %-8s %s\n", i+1, item.ID, item.Name)
	}
	return nil
}

// favoriteItem builds the saved record for id, looking up missing name and thumbnail.
func (r *Runner) favoriteItem(ctx context.Context, id, name, thumb string) (models.FavoriteItem, error) {
	if name != "" {
		return models.FavoriteItem{ID: id, Name: name, Thumb: thumb}, nil
	}

	c, err := r.cocktails.LookupCocktail(ctx, id)
	if err != nil {
		return models.FavoriteItem{}, err
	}
	item := c.Favorite()
	if thumb != "" {
		item.Thumb = thumb
	}
	return item, nil
}

// FavoritesAdd saves a cocktail.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	store, _, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if store.IsFavorite(id) && !r.config.Session.AllowDuplicateFavorites {
		return r.writePlain("Already saved: %s\n", id)
	}

	item, err := r.favoriteItem(ctx, id, cmd.String("name"), cmd.String("thumb"))
	if err != nil {
		return err
	}
	if err := store.AddToFavorites(ctx, item); err != nil {
		return err
	}
	return r.writePlain("♥ Saved %s\n", item.Name)
}

// FavoritesRemove removes a cocktail. Removing an unsaved id succeeds without changes.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	store, _, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if !store.IsFavorite(id) {
		return r.writePlain("Not saved: %s\n", id)
	}
	if err := store.RemoveFromFavorites(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s\n", id)
}

// FavoritesToggle saves an unsaved cocktail or removes a saved one.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	store, _, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	item := models.FavoriteItem{ID: id}
	if !store.IsFavorite(id) {
		if item, err = r.favoriteItem(ctx, id, "", ""); err != nil {
			return err
		}
	}

	saved, err := store.ToggleFavorite(ctx, item)
	if err != nil {
		return err
	}
	if saved {
		return r.writePlain("♥ Saved %s\n", item.Name)
	}
	return r.writePlain("✓ Removed %s\n", id)
}

// FavoritesHas prints yes or no.
func (r *Runner) FavoritesHas(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	store, _, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if store.IsFavorite(id) {
		return r.writePlain("yes\n")
	}
	return r.writePlain("no\n")
}

// FavoritesExport writes the favorites in the requested format. Markdown exports can include
// downloaded thumbnails and looked-up recipes.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	store, user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	export := &formatter.FavoritesExport{
		Owner:      *user,
		Items:      store.Favorites(),
		ExportedAt: time.Now(),
		RecipeURL:  r.cocktails.RecipeURL,
	}

	if format != formatter.FormatMarkdown {
		if cmd.Bool("images") || cmd.Bool("recipes") {
			r.logger.Warn("--images and --recipes only apply to markdown exports", "format", format)
		}
		path, err := formatter.WriteExport(export, format, cmd.String("output"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d favorites to %s\n", len(export.Items), path)
	}

	if cmd.Bool("recipes") {
		result, err := r.fetchRecipes(ctx, export.Items, int(cmd.Int("workers")))
		if err != nil {
			return err
		}
		export.Recipes = result.Recipes
		for id, ferr := range result.Failed {
			r.logger.Warn("recipe lookup failed", "id", id, "error", ferr)
		}
	}

	client := r.httpClient
	if !cmd.Bool("images") {
		client = nil
	}

	result, err := formatter.WriteMarkdownExport(ctx, export, cmd.String("output"), client)
	if err != nil {
		return err
	}
	for id, skipErr := range result.Skipped {
		r.logger.Warn("thumbnail skipped", "id", id, "error", skipErr)
	}
	return r.writePlain("✓ Exported %d favorites to %s (%d files)\n", len(export.Items), result.Directory, len(result.Files))
}

// fetchRecipes runs the lookup pool, logging progress as it arrives.
func (r *Runner) fetchRecipes(ctx context.Context, items []models.FavoriteItem, workers int) (*tasks.RecipeResult, error) {
	prog := make(chan tasks.ProgressUpdate, 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range prog {
			r.logger.Info(u.Message)
		}
	}()

	result, err := tasks.FetchRecipes(ctx, prog, r.cocktails, items, tasks.RecipeOpts{NumWorkers: workers})
	close(prog)
	wg.Wait()
	return result, err
}
