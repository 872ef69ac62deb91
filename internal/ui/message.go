package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgInitialized MsgKind = iota
	MsgAuthenticated
	MsgSignedOut
	MsgIngredientsFetched
	MsgCocktailsFetched
	MsgRecipeFetched
	MsgFavoriteToggled
	MsgDatabaseChanged
	MsgReloaded
	MsgWatcherClosed
	MsgBrowserOpened
)

// Kind reports the message type.
func (m Msg) Kind() MsgKind { return m.kind }

// Err reports the failure carried by the message, if any.
func (m Msg) Err() error { return m.err }

func initializedMsg(err error) Msg {
	return Msg{kind: MsgInitialized, err: err}
}

func authenticatedMsg(err error) Msg {
	return Msg{kind: MsgAuthenticated, err: err}
}

func signedOutMsg(err error) Msg {
	return Msg{kind: MsgSignedOut, err: err}
}

func ingredientsFetchedMsg(ingredients []models.Ingredient, err error) Msg {
	return Msg{kind: MsgIngredientsFetched, data: ingredients, err: err}
}

type cocktailResults struct {
	ingredient string
	drinks     []models.Cocktail
}

func cocktailsFetchedMsg(ingredient string, drinks []models.Cocktail, err error) Msg {
	return Msg{kind: MsgCocktailsFetched, data: cocktailResults{ingredient, drinks}, err: err}
}

func recipeFetchedMsg(c *models.Cocktail, err error) Msg {
	return Msg{kind: MsgRecipeFetched, data: c, err: err}
}

type toggleResult struct {
	item  models.FavoriteItem
	saved bool
}

func favoriteToggledMsg(item models.FavoriteItem, saved bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: toggleResult{item, saved}, err: err}
}

func databaseChangedMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgDatabaseChanged, data: update}
}

func reloadedMsg(err error) Msg {
	return Msg{kind: MsgReloaded, err: err}
}

func watcherClosedMsg() Msg {
	return Msg{kind: MsgWatcherClosed}
}

func browserOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: url, err: err}
}
