// Package services contains the domain API clients of the recipekeeper
// client: recipes (with the offline snapshot fallback), social posts,
// comments, follows and authentication.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
)

// API is the part of *client.Pipeline the services depend on.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (*client.Envelope, error)
	Post(ctx context.Context, path string, body any) (*client.Envelope, error)
	Put(ctx context.Context, path string, body any) (*client.Envelope, error)
	Delete(ctx context.Context, path string) (*client.Envelope, error)
	Ping(ctx context.Context) error
}

var _ API = (*client.Pipeline)(nil)

// pathOf joins escaped segments into an API path.
func pathOf(segments ...string) string {
	p := ""
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// entity returns the object held in env.Data, unwrapping it from the first
// of keys that holds an object (e.g. {"post": {...}}).
func entity(env *client.Envelope, keys ...string) (json.RawMessage, error) {
	if env == nil || len(env.Data) == 0 {
		return nil, fmt.Errorf("empty payload: %w", client.ErrMalformedResponse)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", client.ErrMalformedResponse)
	}
	for _, k := range keys {
		if v, ok := fields[k]; ok && len(v) > 0 && v[0] == '{' {
			return v, nil
		}
	}
	return env.Data, nil
}
