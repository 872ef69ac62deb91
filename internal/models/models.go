package models

import (
	"fmt"
	"strings"
)

// Account is a registered identity. Email is stored normalized and is unique across the directory.
// Accounts are never updated after creation.
type Account struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// Session returns the account without its secret.
func (a Account) Session() Session {
	return Session{ID: a.ID, Name: a.Name, Email: a.Email}
}

// Session is the signed-in identity as exposed to callers.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate reports a session record that cannot scope favorites.
func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session has no account id")
	}
	return nil
}

// FavoriteItem references a cocktail by its TheCocktailDB id.
type FavoriteItem struct {
	ID    string `json:"idDrink"`
	Name  string `json:"strDrink"`
	Thumb string `json:"strDrinkThumb"`
}

// Validate reports an item that cannot be matched by id.
func (f FavoriteItem) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("favorite has no idDrink")
	}
	return nil
}

// Ingredient is one entry of the list.php?i=list response.
type Ingredient struct {
	Name string `json:"strIngredient1"`
}

// Cocktail is a drink as returned by filter.php (summary) or lookup.php (full recipe).
// Fields other than ID, Name and Thumb are only populated by lookups.
type Cocktail struct {
	ID           string    `json:"idDrink"`
	Name         string    `json:"strDrink"`
	Thumb        string    `json:"strDrinkThumb"`
	Instructions string    `json:"strInstructions,omitempty"`
	Category     string    `json:"strCategory,omitempty"`
	Alcoholic    string    `json:"strAlcoholic,omitempty"`
	Glass        string    `json:"strGlass,omitempty"`
	Ingredients  []Measure `json:"ingredients,omitempty"`
}

// Favorite converts the cocktail into the record saved in a favorites list.
func (c Cocktail) Favorite() FavoriteItem {
	return FavoriteItem{ID: c.ID, Name: c.Name, Thumb: c.Thumb}
}

// Measure is one ingredient line of a recipe.
type Measure struct {
	Ingredient string `json:"ingredient"`
	Amount     string `json:"measure,omitempty"`
}

// String renders the line as "amount ingredient".
func (m Measure) String() string {
	if m.Amount == "" {
		return m.Ingredient
	}
	return strings.TrimSpace(m.Amount) + " " + m.Ingredient
}
