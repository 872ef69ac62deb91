package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// DefaultSiteURL hosts the public recipe pages.
const DefaultSiteURL = "https://www.thecocktaildb.com"

// maxMeasures is the number of strIngredientN/strMeasureN pairs in a lookup response.
const maxMeasures = 15

// CocktailDBOpts configures [NewCocktailDB]. Zero values select defaults.
type CocktailDBOpts struct {
	BaseURL string
	SiteURL string
	// RateLimit is the number of requests per second; zero disables limiting.
	RateLimit float64
	Timeout   time.Duration
	Client    *http.Client
	Language  language.Tag
}

// CocktailDB implements [CocktailService] for TheCocktailDB.
type CocktailDB struct {
	api      *APIService
	siteURL  string
	limiter  *rate.Limiter
	language language.Tag
}

// NewCocktailDB creates a client from opts.
func NewCocktailDB(opts CocktailDBOpts) *CocktailDB {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.SiteURL == "" {
		opts.SiteURL = DefaultSiteURL
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &CocktailDB{
		api:      NewAPIService(opts.BaseURL, client),
		siteURL:  strings.TrimRight(opts.SiteURL, "/"),
		limiter:  limiter,
		language: opts.Language,
	}
}

// NewCocktailDBFromConfig creates a client from the [cocktaildb] config section.
func NewCocktailDBFromConfig(cfg shared.CocktailDBConfig) *CocktailDB {
	return NewCocktailDB(CocktailDBOpts{
		BaseURL:   cfg.BaseURL,
		SiteURL:   cfg.SiteURL,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.Timeout,
	})
}

func (c *CocktailDB) Name() string { return "TheCocktailDB" }

// API exposes the underlying raw client.
func (c *CocktailDB) API() *APIService { return c.api }

// ListIngredients fetches list.php?i=list and sorts names with a locale-aware collator.
func (c *CocktailDB) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := c.getDrinks(ctx, "/list.php?i=list", &ingredients); err != nil {
		return nil, err
	}

	kept := ingredients[:0]
	for _, in := range ingredients {
		if in.Name = strings.TrimSpace(in.Name); in.Name != "" {
			kept = append(kept, in)
		}
	}
	c.sortIngredients(kept)
	return kept, nil
}

func (c *CocktailDB) sortIngredients(ingredients []models.Ingredient) {
	col := collate.New(c.language, collate.Loose)
	sort.SliceStable(ingredients, func(i, j int) bool {
		return col.CompareString(ingredients[i].Name, ingredients[j].Name) < 0
	})
}

// FilterByIngredient fetches filter.php for ingredient.
func (c *CocktailDB) FilterByIngredient(ctx context.Context, ingredient string) ([]models.Cocktail, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return nil, fmt.Errorf("%w: ingredient is required", shared.ErrInvalidInput)
	}

	var drinks []models.Cocktail
	if err := c.getDrinks(ctx, "/filter.php?i="+url.QueryEscape(ingredient), &drinks); err != nil {
		return nil, err
	}
	if drinks == nil {
		drinks = []models.Cocktail{}
	}
	return drinks, nil
}

// LookupCocktail fetches lookup.php for id and collects the numbered ingredient fields.
func (c *CocktailDB) LookupCocktail(ctx context.Context, id string) (*models.Cocktail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: drink id is required", shared.ErrInvalidInput)
	}

	var drinks []map[string]any
	if err := c.getDrinks(ctx, "/lookup.php?i="+url.QueryEscape(id), &drinks); err != nil {
		return nil, err
	}
	if len(drinks) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrCocktailNotFound, id)
	}

	d := drinks[0]
	cocktail := &models.Cocktail{
		ID:           field(d, "idDrink"),
		Name:         field(d, "strDrink"),
		Thumb:        field(d, "strDrinkThumb"),
		Instructions: field(d, "strInstructions"),
		Category:     field(d, "strCategory"),
		Alcoholic:    field(d, "strAlcoholic"),
		Glass:        field(d, "strGlass"),
	}
	for i := 1; i <= maxMeasures; i++ {
		name := field(d, "strIngredient"+strconv.Itoa(i))
		if name == "" {
			continue
		}
		cocktail.Ingredients = append(cocktail.Ingredients, models.Measure{
			Ingredient: name,
			Amount:     field(d, "strMeasure"+strconv.Itoa(i)),
		})
	}
	return cocktail, nil
}

// RecipeURL returns the drink page on the public site.
func (c *CocktailDB) RecipeURL(id string) string {
	return c.siteURL + "/drink/" + url.PathEscape(id)
}

// getDrinks requests path and decodes the array under the "drinks" key into v.
// A null or non-array value leaves v untouched.
func (c *CocktailDB) getDrinks(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	// The API answers an unknown ingredient with an empty body.
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	var envelope struct {
		Drinks json.RawMessage `json:"drinks"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrAPIRequest, path, err)
	}

	raw := bytes.TrimSpace(envelope.Drinks)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: failed to decode drinks from %s: %v", shared.ErrAPIRequest, path, err)
	}
	return nil
}

func field(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
