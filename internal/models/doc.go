// Package models defines domain entities for the cocktailparty session and favorites store.
//
// The package contains two categories of types:
//
// 1. Persisted records: JSON documents written to the key-value store
//   - [Account] : Registered identity with a hashed secret
//   - [Session] : Redacted projection of the signed-in Account
//   - [FavoriteItem] : Saved reference to an external cocktail
//
// 2. Data Transfer Objects (DTOs): TheCocktailDB responses
//   - [Ingredient] : Entry of the ingredient list
//   - [Cocktail] : Drink summary or full recipe
//   - [Measure] : Ingredient line of a recipe
//
// JSON field names of persisted records match the documents written by earlier
// versions of the app so existing data stays readable.
package models
