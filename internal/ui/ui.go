package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/services"
	"github.com/desertthunder/cocktailparty/internal/session"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/desertthunder/cocktailparty/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	RegisterView
	IngredientsView
	CocktailsView
	FavoritesView
	RecipeView
)

// protected reports whether the view requires a session.
func (v ViewState) protected() bool {
	return v >= IngredientsView
}

// SessionCore is the part of the session store the TUI drives.
type SessionCore interface {
	Initialize(ctx context.Context) error
	Reload(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	User() *models.Session
	Loading() bool
	Favorites() []models.FavoriteItem
	IsFavorite(id string) bool
	ToggleFavorite(ctx context.Context, item models.FavoriteItem) (bool, error)
}

// Options carries the optional collaborators of a [Model].
type Options struct {
	// Changes delivers database change notifications, usually from a [tasks.Watcher].
	Changes <-chan tasks.ProgressUpdate
	// OpenURL opens a recipe page; defaults to [shared.OpenBrowser].
	OpenURL func(string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	core      SessionCore
	cocktails services.CocktailService
	changes   <-chan tasks.ProgressUpdate
	openURL   func(string) error

	view     ViewState
	previous ViewState
	width    int
	height   int
	busy     bool

	spinner  spinner.Model
	login    form
	register form

	ingredientList list.Model
	ingredient     string
	drinks         []models.FavoriteItem
	cocktailList   list.Model
	favoritesList  list.Model
	recipe         *models.Cocktail

	status  string
	formErr error
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, core SessionCore, cocktails services.CocktailService, opts Options) *Model {
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Model{
		ctx:            ctx,
		core:           core,
		cocktails:      cocktails,
		changes:        opts.Changes,
		openURL:        opts.OpenURL,
		view:           LoadingView,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.heart)),
		login:          newLoginForm(),
		register:       newRegisterForm(),
		ingredientList: newList("Ingredients", nil, 0, 0),
		cocktailList:   newList("Cocktails", nil, 0, 0),
		favoritesList:  newList("Favorites", nil, 0, 0),
		help:           help.New(),
		keys:           newKeyMap(),
	}
}

// State reports the current view.
func (m *Model) State() ViewState { return m.view }

// Init initializes the session store and starts listening for database changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize(), m.waitForChange())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.ingredientList, &m.cocktailList, &m.favoritesList} {
			l.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		if m.view.protected() && m.core.User() == nil {
			return m, m.toLogin()
		}

		switch m.view {
		case LoginView, RegisterView:
			return m.handleFormKeys(msg)
		case IngredientsView:
			return m.handleIngredientKeys(msg)
		case CocktailsView, FavoritesView:
			return m.handleDrinkKeys(msg)
		case RecipeView:
			return m.handleRecipeKeys(msg)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgInitialized:
		if msg.err != nil {
			m.status = styles.warn.Render(fmt.Sprintf("Started without saved state: %v", msg.err))
		}
		return m, m.home()

	case MsgAuthenticated:
		m.busy = false
		if msg.err != nil {
			m.formErr = msg.err
			return m, nil
		}
		m.formErr = nil
		m.login, m.register = newLoginForm(), newRegisterForm()
		return m, m.home()

	case MsgSignedOut:
		m.busy = false
		if msg.err != nil {
			m.status = styles.warn.Render(fmt.Sprintf("Signed out, but the session could not be cleared: %v", msg.err))
		}
		return m, m.toLogin()

	case MsgIngredientsFetched:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		ingredients, _ := msg.data.([]models.Ingredient)
		return m, m.ingredientList.SetItems(ingredientItems(ingredients))

	case MsgCocktailsFetched:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		res, _ := msg.data.(cocktailResults)
		m.ingredient = res.ingredient
		m.drinks = make([]models.FavoriteItem, len(res.drinks))
		for i, d := range res.drinks {
			m.drinks[i] = d.Favorite()
		}
		m.cocktailList.Title = fmt.Sprintf("Cocktails with %s", res.ingredient)
		m.cocktailList.ResetSelected()
		m.view = CocktailsView
		return m, m.cocktailList.SetItems(cocktailItems(m.drinks, m.core.IsFavorite))

	case MsgRecipeFetched:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.recipe, _ = msg.data.(*models.Cocktail)
		m.previous = m.view
		m.view = RecipeView
		return m, nil

	case MsgFavoriteToggled:
		res, _ := msg.data.(toggleResult)
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not update favorites: %v", msg.err))
		} else if res.saved {
			m.status = styles.ok.Render(fmt.Sprintf("Saved %s", res.item.Name))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("Removed %s", res.item.Name))
		}
		return m, m.refresh()

	case MsgDatabaseChanged:
		update, _ := msg.data.(tasks.ProgressUpdate)
		if update.Phase != tasks.DatabaseChanged {
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.reload(), m.waitForChange())

	case MsgReloaded:
		if msg.err != nil {
			m.status = styles.warn.Render(fmt.Sprintf("Reload failed: %v", msg.err))
		}
		if m.view.protected() && m.core.User() == nil {
			m.status = styles.warn.Render("Signed out elsewhere")
			return m, m.toLogin()
		}
		return m, m.refresh()

	case MsgBrowserOpened:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not open browser: %v", msg.err))
		} else {
			m.status = styles.help.Render(fmt.Sprintf("Opened %v", msg.data))
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	f := &m.login
	if m.view == RegisterView {
		f = &m.register
	}

	switch {
	case key.Matches(msg, m.keys.swap):
		m.formErr = nil
		if m.view == LoginView {
			m.view = RegisterView
			return m, m.register.setFocus(0)
		}
		m.view = LoginView
		return m, m.login.setFocus(0)
	case key.Matches(msg, m.keys.enter):
		if !f.last() {
			return m, f.next()
		}
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		return m, f.next()
	case key.Matches(msg, m.keys.prev):
		return m, f.prev()
	}

	return m, f.update(msg)
}

// submit validates the focused form and starts the request.
func (m *Model) submit() tea.Cmd {
	if m.view == LoginView {
		email, password := m.login.value(0), m.login.value(1)
		if err := shared.ValidateLogin(email, password); err != nil {
			m.formErr = err
			return nil
		}
		m.busy = true
		return func() tea.Msg {
			return authenticatedMsg(m.core.Login(m.ctx, email, password))
		}
	}

	reg := shared.Registration{
		Name:     m.register.value(0),
		Email:    m.register.value(1),
		Password: m.register.value(2),
		Confirm:  m.register.value(3),
	}
	if err := reg.Validate(); err != nil {
		m.formErr = err
		return nil
	}
	m.busy = true
	return func() tea.Msg {
		return authenticatedMsg(m.core.Register(m.ctx, reg.Name, reg.Email, reg.Password))
	}
}

func (m *Model) handleIngredientKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ingredientList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.ingredientList, cmd = m.ingredientList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.favorites):
		return m, m.showFavorites()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.ingredientList.SelectedItem().(ingredientItem); ok && !m.busy {
			return m, m.fetchCocktails(item.ingredient.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ingredientList, cmd = m.ingredientList.Update(msg)
	return m, cmd
}

// handleDrinkKeys drives both the search results and the favorites list.
func (m *Model) handleDrinkKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.cocktailList
	if m.view == FavoritesView {
		l = &m.favoritesList
	}

	if l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		return m, cmd
	}

	selected, hasSelection := l.SelectedItem().(cocktailItem)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = IngredientsView
		return m, nil
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.favorites):
		return m, m.showFavorites()
	case key.Matches(msg, m.keys.favorite):
		if hasSelection {
			return m, m.toggle(selected.drink)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if hasSelection {
			return m, m.open(selected.drink.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if hasSelection && !m.busy {
			return m, m.fetchRecipe(selected.drink.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) handleRecipeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.previous
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.recipe != nil {
			return m, m.toggle(m.recipe.Favorite())
		}
	case key.Matches(msg, m.keys.open):
		if m.recipe != nil {
			return m, m.open(m.recipe.ID)
		}
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case IngredientsView:
		m.ingredientList, cmd = m.ingredientList.Update(msg)
	case CocktailsView:
		m.cocktailList, cmd = m.cocktailList.Update(msg)
	case FavoritesView:
		m.favoritesList, cmd = m.favoritesList.Update(msg)
	}
	return m, cmd
}

// home routes to the ingredient picker when signed in and to the login form otherwise.
func (m *Model) home() tea.Cmd {
	if m.core.User() == nil {
		return m.toLogin()
	}

	m.view = IngredientsView
	if len(m.ingredientList.Items()) == 0 {
		return m.fetchIngredients()
	}
	return nil
}

func (m *Model) toLogin() tea.Cmd {
	m.view = LoginView
	m.busy = false
	m.recipe = nil
	m.drinks = nil
	m.cocktailList.SetItems(nil)
	m.favoritesList.SetItems(nil)
	return m.login.setFocus(0)
}

func (m *Model) showFavorites() tea.Cmd {
	m.view = FavoritesView
	return m.favoritesList.SetItems(cocktailItems(m.core.Favorites(), m.core.IsFavorite))
}

// refresh rebuilds the rows whose saved state may have changed.
func (m *Model) refresh() tea.Cmd {
	return tea.Batch(
		m.cocktailList.SetItems(cocktailItems(m.drinks, m.core.IsFavorite)),
		m.favoritesList.SetItems(cocktailItems(m.core.Favorites(), m.core.IsFavorite)),
	)
}

func (m *Model) initialize() tea.Cmd {
	return func() tea.Msg {
		return initializedMsg(m.core.Initialize(m.ctx))
	}
}

func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg(m.core.Reload(m.ctx))
	}
}

func (m *Model) logout() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return signedOutMsg(m.core.Logout(m.ctx))
	}
}

func (m *Model) fetchIngredients() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		ingredients, err := m.cocktails.ListIngredients(m.ctx)
		return ingredientsFetchedMsg(ingredients, err)
	}
}

func (m *Model) fetchCocktails(ingredient string) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		drinks, err := m.cocktails.FilterByIngredient(m.ctx, ingredient)
		return cocktailsFetchedMsg(ingredient, drinks, err)
	}
}

func (m *Model) fetchRecipe(id string) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		c, err := m.cocktails.LookupCocktail(m.ctx, id)
		return recipeFetchedMsg(c, err)
	}
}

func (m *Model) toggle(item models.FavoriteItem) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.core.ToggleFavorite(m.ctx, item)
		return favoriteToggledMsg(item, saved, err)
	}
}

func (m *Model) open(id string) tea.Cmd {
	url := m.cocktails.RecipeURL(id)
	return func() tea.Msg {
		return browserOpenedMsg(url, m.openURL(url))
	}
}

// waitForChange blocks on the next database notification.
func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case u, ok := <-m.changes:
			if !ok {
				return watcherClosedMsg()
			}
			return databaseChangedMsg(u)
		case <-m.ctx.Done():
			return watcherClosedMsg()
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("\n  %s Loading session...\n", m.spinner.View())
	case LoginView:
		return m.renderForm("Sign in to Cocktail Party", m.login, "Don't have an account? ctrl+r to sign up")
	case RegisterView:
		return m.renderForm("Create an account", m.register, "Already have an account? ctrl+r to sign in")
	case IngredientsView:
		return m.renderList(m.ingredientList, m.keys.enter, m.keys.favorites, m.keys.logout, m.keys.quit)
	case CocktailsView:
		return m.renderList(m.cocktailList, m.keys.favorite, m.keys.enter, m.keys.open, m.keys.back, m.keys.quit)
	case FavoritesView:
		if len(m.favoritesList.Items()) == 0 {
			return m.frame(styles.title.Render("Favorites")+"\n"+styles.help.Render("No favorites yet. Pick an ingredient and press f on a drink."),
				m.keys.back, m.keys.quit)
		}
		return m.renderList(m.favoritesList, m.keys.favorite, m.keys.enter, m.keys.open, m.keys.back, m.keys.quit)
	case RecipeView:
		return m.renderRecipe()
	default:
		return ""
	}
}

func (m *Model) renderForm(title string, f form, footer string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(title) + "\n")
	if m.view == LoginView {
		b.WriteString(styles.help.Render(fmt.Sprintf("Demo account: %s / %s", session.DemoEmail, session.DemoPassword)) + "\n\n")
	}
	b.WriteString(f.view())
	if m.formErr != nil {
		b.WriteString("\n" + styles.err.Render(m.formErr.Error()) + "\n")
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Please wait...\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + styles.help.Render(footer) + "\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.swap, m.keys.forceQuit}))
	return b.String()
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	return m.frame(l.View(), bindings...)
}

// frame adds the signed-in header, status line and help below body.
func (m *Model) frame(body string, bindings ...key.Binding) string {
	var b strings.Builder
	if u := m.core.User(); u != nil {
		b.WriteString(styles.help.Render(fmt.Sprintf("Signed in as %s <%s> • %d favorites", u.Name, u.Email, len(m.core.Favorites()))) + "\n\n")
	}
	b.WriteString(body + "\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) renderRecipe() string {
	c := m.recipe
	if c == nil {
		return m.frame(styles.err.Render("No recipe loaded"), m.keys.back, m.keys.quit)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s %s", heart(m.core.IsFavorite(c.ID)), c.Name)) + "\n")

	var meta []string
	for _, s := range []string{c.Category, c.Alcoholic, c.Glass} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		b.WriteString(styles.help.Render(strings.Join(meta, " • ")) + "\n\n")
	}

	for _, measure := range c.Ingredients {
		b.WriteString("  • " + measure.String() + "\n")
	}
	if c.Instructions != "" {
		width := m.width - 4
		if width <= 0 {
			width = 76
		}
		b.WriteString("\n" + lipgloss.NewStyle().Width(width).Render(c.Instructions) + "\n")
	}
	b.WriteString("\n" + styles.help.Render(m.cocktails.RecipeURL(c.ID)))

	return m.frame(b.String(), m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit)
}
