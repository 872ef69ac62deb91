// Package repositories implements the key-value persistence substrate and the typed
// documents stored in it.
//
// Every record is a JSON document under a well-known key, so the storage engine only needs
// get, set and delete on opaque byte values.
//
// Key Implementations:
//   - [SQLiteStore] : [KVStore] over the kv table created by the embedded migrations
//   - [MemoryStore] : [KVStore] held in process memory, for tests and ephemeral runs
//   - [AccountDirectory] : the account list under [AccountsKey]
//   - [SessionRecord] : the active session under [SessionKey]
//   - [FavoritesRepository] : one favorites list per account under [FavoritesKey]
//
// Reads of absent keys are not errors. Storage failures wrap [shared.ErrStorage] and undecodable
// documents wrap [shared.ErrCorruptData].
package repositories
