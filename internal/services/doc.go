// Package services defines the [CocktailService] interface for the external cocktail catalog and
// implements it for TheCocktailDB public API.
//
// # Raw Requests
//
// [APIService] performs GET requests against a base URL and returns the status, headers and body
// untouched, noting whether the body parsed as JSON. The `cparty api get` command exposes it for
// debugging and [CocktailDB] builds on it.
//
// # TheCocktailDB
//
// [CocktailDB] is a read-only passthrough:
//   - list.php?i=list : ingredient names, sorted with a locale-aware collator
//   - filter.php?i=<ingredient> : drink summaries (id, name, thumbnail)
//   - lookup.php?i=<id> : a full recipe with instructions and measures
//
// The API answers "no results" with `"drinks": null` (and occasionally a bare string); both decode to
// an empty slice. Requests pass through a client-side rate limiter. There is no retry, pagination or
// caching.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or undecodable body
//   - [shared.ErrCocktailNotFound] : lookup of an unknown id
//   - [shared.ErrInvalidInput] : empty ingredient or id
package services
