package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/services"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps a core error onto its status code.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrAccountExists):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrCocktailNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrAPIRequest):
		status = http.StatusBadGateway
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", shared.ErrInvalidInput, err)
	}
	return nil
}

type credentials struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionHandler serves the session state and the sign-in, sign-up and sign-out actions.
type SessionHandler struct {
	core SessionCore
}

// NewSessionHandler creates a [SessionHandler].
func NewSessionHandler(core SessionCore) *SessionHandler {
	return &SessionHandler{core: core}
}

func (h *SessionHandler) Routes() []string {
	return []string{
		"GET /api/session",
		"POST /api/login",
		"POST /api/register",
		"POST /api/logout",
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/session":
		writeJSON(w, http.StatusOK, h.core.Snapshot())
	case "POST /api/login":
		h.login(w, r)
	case "POST /api/register":
		h.register(w, r)
	case "POST /api/logout":
		if err := h.core.Logout(r.Context()); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.core.Snapshot())
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, err)
		return
	}
	if err := shared.ValidateLogin(in.Email, in.Password); err != nil {
		fail(w, err)
		return
	}
	if err := h.core.Login(r.Context(), in.Email, in.Password); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.core.Snapshot())
}

func (h *SessionHandler) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, err)
		return
	}
	reg := shared.Registration{Name: in.Name, Email: in.Email, Password: in.Password, Confirm: in.ConfirmPassword}
	if err := reg.Validate(); err != nil {
		fail(w, err)
		return
	}
	if err := h.core.Register(r.Context(), in.Name, in.Email, in.Password); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.core.Snapshot())
}

// FavoritesHandler serves the signed-in account's favorites. Every route is guarded by [RequireSession].
type FavoritesHandler struct {
	core      SessionCore
	cocktails services.CocktailService
	guarded   http.Handler
}

// NewFavoritesHandler creates a [FavoritesHandler]. cocktails may be nil, in which case toggling
// an unsaved id without a body fails.
func NewFavoritesHandler(core SessionCore, cocktails services.CocktailService) *FavoritesHandler {
	h := &FavoritesHandler{core: core, cocktails: cocktails}
	h.guarded = RequireSession(core)(http.HandlerFunc(h.serve))
	return h
}

func (h *FavoritesHandler) Routes() []string {
	return []string{
		"GET /api/favorites",
		"POST /api/favorites",
		"DELETE /api/favorites/{id}",
		"POST /api/favorites/{id}/toggle",
	}
}

func (h *FavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.guarded.ServeHTTP(w, r)
}

func (h *FavoritesHandler) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/favorites":
		writeJSON(w, http.StatusOK, h.core.Favorites())
	case "POST /api/favorites":
		var item models.FavoriteItem
		if err := decode(w, r, &item); err != nil {
			fail(w, err)
			return
		}
		if err := h.core.AddToFavorites(r.Context(), item); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, h.core.Favorites())
	case "DELETE /api/favorites/{id}":
		if err := h.core.RemoveFromFavorites(r.Context(), r.PathValue("id")); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.core.Favorites())
	case "POST /api/favorites/{id}/toggle":
		h.toggle(w, r)
	default:
		http.NotFound(w, r)
	}
}

// toggle accepts an optional item body. Without one, an unsaved id is looked up to fill in
// name and thumbnail.
func (h *FavoritesHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item := models.FavoriteItem{ID: id}

	err := decode(w, r, &item)
	switch {
	case err == nil:
		item.ID = id
	case !errors.Is(err, io.EOF):
		fail(w, err)
		return
	case !h.core.IsFavorite(id):
		if h.cocktails == nil {
			fail(w, fmt.Errorf("%w: item body required", shared.ErrInvalidInput))
			return
		}
		c, err := h.cocktails.LookupCocktail(r.Context(), id)
		if err != nil {
			fail(w, err)
			return
		}
		item = c.Favorite()
	}

	saved, err := h.core.ToggleFavorite(r.Context(), item)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"idDrink": id, "isFavorite": saved})
}

// CocktailHandler proxies TheCocktailDB reads.
type CocktailHandler struct {
	core      SessionCore
	cocktails services.CocktailService
	search    http.Handler
}

// NewCocktailHandler creates a [CocktailHandler]. Searching is guarded since results carry
// the caller's favorite flags.
func NewCocktailHandler(core SessionCore, cocktails services.CocktailService) *CocktailHandler {
	h := &CocktailHandler{core: core, cocktails: cocktails}
	h.search = RequireSession(core)(http.HandlerFunc(h.searchByIngredient))
	return h
}

func (h *CocktailHandler) Routes() []string {
	return []string{
		"GET /api/ingredients",
		"GET /api/cocktails",
		"GET /api/cocktails/{id}",
	}
}

func (h *CocktailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/ingredients":
		items, err := h.cocktails.ListIngredients(r.Context())
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case "GET /api/cocktails":
		h.search.ServeHTTP(w, r)
	case "GET /api/cocktails/{id}":
		c, err := h.cocktails.LookupCocktail(r.Context(), r.PathValue("id"))
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			*models.Cocktail
			RecipeURL string `json:"recipeUrl"`
		}{c, h.cocktails.RecipeURL(c.ID)})
	default:
		http.NotFound(w, r)
	}
}

type drinkResult struct {
	models.Cocktail
	IsFavorite bool `json:"isFavorite"`
}

func (h *CocktailHandler) searchByIngredient(w http.ResponseWriter, r *http.Request) {
	ingredient := strings.TrimSpace(r.URL.Query().Get("ingredient"))
	if ingredient == "" {
		fail(w, fmt.Errorf("%w: ingredient is required", shared.ErrInvalidInput))
		return
	}

	drinks, err := h.cocktails.FilterByIngredient(r.Context(), ingredient)
	if err != nil {
		fail(w, err)
		return
	}

	out := make([]drinkResult, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, drinkResult{Cocktail: d, IsFavorite: h.core.IsFavorite(d.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}
