// Package service wraps the school REST API resources used by the console.
package service

import (
	"context"
	"net/url"
)

// API is satisfied by *apiclient.Client.
type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// set adds key only when value is non-empty; the API treats absent and
// empty parameters differently.
func set(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func includeDeleted(params url.Values, on bool) {
	if on {
		params.Set("includeDeleted", "true")
	}
}
