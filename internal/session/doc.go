// Package session owns the signed-in identity and that identity's favorites.
//
// A [Store] is the single source of truth for presentation layers: it seeds and consults the
// account directory, restores a persisted session at startup and keeps the in-memory
// favorites equal to what is persisted for the active account. Every mutation is written to
// the key-value store before the in-memory view changes, so a failed write leaves both sides
// as they were.
//
// Methods are safe for concurrent use.
package session
