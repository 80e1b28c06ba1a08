// Package cli provides the interactive recipekeeper command-line client.
//
// It wires configuration, the local key-value store, the request pipeline
// and the domain services, then runs a REPL that keeps working offline:
// login falls back to the remembered credential and the recipe list falls
// back to its last snapshot when the server cannot be reached.
//
// Key features:
//   - Login / Logout (online with offline fallback), Register
//   - Recipes: list, show, search
//   - Social feed: browse, like, comment, follow
//   - Offline cache status and clearing
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
