// Package common holds the storage key layout and wire constants shared by
// the client components.
package common

const (
	// CacheKeyPrefix namespaces every key written by the cache service.
	// A bulk clear removes exactly the keys carrying it.
	CacheKeyPrefix = "@recipekeeper_cache:"

	// AuthKeyPrefix namespaces the offline credential slot.
	AuthKeyPrefix = "@recipekeeper_auth:"

	// AuthTokenKey is the slot holding the session token, outside both
	// prefixes.
	AuthTokenKey = "authToken"

	// OfflineTokenSentinel is the legacy value stored in AuthTokenKey after a
	// local-only login.
	OfflineTokenSentinel = "offline"

	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
)
