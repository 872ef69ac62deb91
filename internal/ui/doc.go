// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the cocktail app's pages:
//  1. [LoadingView] : Spinner while the session store initializes
//  2. [LoginView] / [RegisterView] : Sign-in and sign-up forms
//  3. [IngredientsView] : Pick an ingredient (filterable)
//  4. [CocktailsView] : Drinks made with it, each marked when saved
//  5. [FavoritesView] : The signed-in account's saved drinks
//  6. [RecipeView] : Instructions and measures for one drink
//
// Every view past the forms requires a session; without one the model falls back to [LoginView].
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Database change notifications flow through a channel from a tasks.Watcher and trigger a session reload, so a
// second process signing out or editing favorites shows up here.
package ui
