// Package apitest provides an in-process stand-in for the REST API client.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"medadmin/m/internal/apiclient"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// Fake answers requests from canned responses keyed by "METHOD /path".
// Responses are round-tripped through JSON so callers decode them exactly
// as they would a real body.
type Fake struct {
	mu        sync.Mutex
	responses map[string]any
	errors    map[string]error
	calls     []Call
}

func New() *Fake {
	return &Fake{responses: map[string]any{}, errors: map[string]error{}}
}

func (f *Fake) On(method, path string, response any) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = response
	delete(f.errors, method+" "+path)
	return f
}

func (f *Fake) Fail(method, path string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[method+" "+path] = err
	return f
}

// FailStatus makes the route answer with an API error of the given status.
func (f *Fake) FailStatus(method, path string, status int, description string) *Fake {
	return f.Fail(method, path, &apiclient.APIError{Status: status, Description: description})
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo filters recorded calls by method and path.
func (f *Fake) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *Fake) Get(_ context.Context, path string, params url.Values, out any) error {
	return f.handle("GET", path, params, nil, out)
}

func (f *Fake) Post(_ context.Context, path string, body, out any) error {
	return f.handle("POST", path, nil, body, out)
}

func (f *Fake) Put(_ context.Context, path string, body, out any) error {
	return f.handle("PUT", path, nil, body, out)
}

func (f *Fake) Delete(_ context.Context, path string) error {
	return f.handle("DELETE", path, nil, nil, nil)
}

func (f *Fake) handle(method, path string, params url.Values, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Params: params, Body: body})
	key := method + " " + path
	err, failing := f.errors[key]
	resp, ok := f.responses[key]
	f.mu.Unlock()

	if failing {
		return err
	}
	if !ok {
		if method == "GET" {
			return &apiclient.APIError{Status: 404, Description: fmt.Sprintf("no fake for %s", key)}
		}
		return nil
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
