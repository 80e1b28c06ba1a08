// Package normalize turns the server's loosely shaped JSON objects into the
// canonical models. The server may put the same logical field at the top
// level, under "user" or under "author", and may express premium status as a
// boolean or as a subscription object; every lookup here walks an ordered
// list of candidate locations and falls back to a zero value.
//
// Untyped maps are accepted at the package boundary and never returned.
// Nothing in this package panics on malformed input.
package normalize
