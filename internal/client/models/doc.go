// Package models defines the canonical entities the client works with:
// recipes, social posts, comments, users and subscriptions.
package models
