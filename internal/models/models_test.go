package models

import (
	"encoding/json"
	"testing"
)

func TestAccountSession(t *testing.T) {
	a := Account{ID: "1", Name: "Demo User", Email: "demo@cocktailparty.com", Secret: "argon2id$..."}
	s := a.Session()

	if s.ID != a.ID || s.Name != a.Name || s.Email != a.Email {
		t.Errorf("session does not mirror account: %+v", s)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"id":"1","name":"Demo User","email":"demo@cocktailparty.com"}` {
		t.Errorf("unexpected session document %s", data)
	}
}

func TestFavoriteItemDocument(t *testing.T) {
	raw := `[{"idDrink":"11007","strDrink":"Margarita","strDrinkThumb":"https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg"}]`

	var items []FavoriteItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "11007" || items[0].Name != "Margarita" {
		t.Errorf("unexpected items %+v", items)
	}

	if err := (FavoriteItem{}).Validate(); err == nil {
		t.Error("item without id should be invalid")
	}
	if err := (Session{}).Validate(); err == nil {
		t.Error("session without id should be invalid")
	}
}

func TestCocktailFavorite(t *testing.T) {
	c := Cocktail{ID: "11000", Name: "Mojito", Thumb: "thumb.jpg", Instructions: "Muddle mint."}
	f := c.Favorite()
	if f != (FavoriteItem{ID: "11000", Name: "Mojito", Thumb: "thumb.jpg"}) {
		t.Errorf("unexpected favorite %+v", f)
	}
}

func TestMeasureString(t *testing.T) {
	if got := (Measure{Ingredient: "Lime", Amount: "1/2 "}).String(); got != "1/2 Lime" {
		t.Errorf("unexpected %q", got)
	}
	if got := (Measure{Ingredient: "Soda water"}).String(); got != "Soda water" {
		t.Errorf("unexpected %q", got)
	}
}
