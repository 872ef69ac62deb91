package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cocktailparty/internal/models"
)

var (
	_ list.Item = ingredientItem{}
	_ list.Item = cocktailItem{}
)

// ingredientItem wraps [models.Ingredient] to implement [list.Item].
type ingredientItem struct {
	ingredient models.Ingredient
}

func (i ingredientItem) FilterValue() string { return i.ingredient.Name }
func (i ingredientItem) Title() string       { return i.ingredient.Name }
func (i ingredientItem) Description() string { return "" }

// cocktailItem wraps [models.FavoriteItem] to implement [list.Item], carrying its saved state.
type cocktailItem struct {
	drink models.FavoriteItem
	saved bool
}

func (i cocktailItem) FilterValue() string { return i.drink.Name }
func (i cocktailItem) Title() string       { return fmt.Sprintf("%s %s", heart(i.saved), i.drink.Name) }
func (i cocktailItem) Description() string { return "#" + i.drink.ID }

func ingredientItems(ingredients []models.Ingredient) []list.Item {
	items := make([]list.Item, len(ingredients))
	for i, ing := range ingredients {
		items[i] = ingredientItem{ingredient: ing}
	}
	return items
}

// cocktailItems builds rows for drinks, marking the ones isSaved reports.
func cocktailItems(drinks []models.FavoriteItem, isSaved func(string) bool) []list.Item {
	items := make([]list.Item, len(drinks))
	for i, d := range drinks {
		items[i] = cocktailItem{drink: d, saved: isSaved(d.ID)}
	}
	return items
}

func newList(title string, items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	return l
}
