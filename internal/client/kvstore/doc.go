// Package kvstore implements the persistent key/value capability the cache,
// the offline credential slot and the session token are stored in.
//
// # Backends
//
//   - SQLiteStore: a local file (or :memory:) via the pure-Go modernc.org/sqlite
//     driver, schema applied with embedded goose migrations. Batches run in a
//     single transaction.
//   - RedisStore: go-redis client; batches run in MULTI/EXEC, key listing uses
//     SCAN under an optional namespace.
//   - MemoryStore: process-local map, for tests and throwaway sessions.
//
// Open picks a backend from a config value.
package kvstore
