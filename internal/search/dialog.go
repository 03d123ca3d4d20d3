// Package search implements the pick-a-person dialog used by the issue
// form: a name box, a scoping list (class or department) and a results
// table with a select action per row.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNoCriteria is returned when search runs with neither a name nor a
// scope.
var ErrNoCriteria = errors.New("no search criteria")

// Phase is what the results area shows. Exactly one phase renders at a
// time.
type Phase int

const (
	Idle Phase = iota
	Loading
	Empty
	Results
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Results:
		return "results"
	default:
		return "idle"
	}
}

// Scope is one entry of the scoping list.
type Scope struct {
	ID   string
	Name string
}

// Source supplies a dialog with scopes and matches.
type Source[T any] interface {
	Scopes(ctx context.Context) ([]Scope, error)
	Find(ctx context.Context, name, scopeID string) ([]T, error)
}

// Labels holds the wording that differs between dialog variants.
type Labels struct {
	Title     string
	NameLabel string
	ScopeName string
	Noun      string
}

// Dialog is stateful for one opening. Nothing carries over between
// openings.
type Dialog[T any] struct {
	src    Source[T]
	labels Labels
	log    *slog.Logger

	open     bool
	scopes   []Scope
	name     string
	scopeID  string
	phase    Phase
	results  []T
	errMsg   string
	selected *T
}

func New[T any](src Source[T], labels Labels, log *slog.Logger) *Dialog[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Dialog[T]{src: src, labels: labels, log: log}
}

// Open shows the dialog and loads the scoping list. A failed load is only
// logged; the dialog stays usable by name.
func (d *Dialog[T]) Open(ctx context.Context) {
	d.reset()
	d.open = true
	scopes, err := d.src.Scopes(ctx)
	if err != nil {
		d.log.Error("failed to load "+d.labels.ScopeName+"s", "err", err)
		return
	}
	d.scopes = scopes
}

// Close hides the dialog and clears every field.
func (d *Dialog[T]) Close() {
	d.reset()
}

func (d *Dialog[T]) reset() {
	d.open = false
	d.scopes = nil
	d.name = ""
	d.scopeID = ""
	d.phase = Idle
	d.results = nil
	d.errMsg = ""
	d.selected = nil
}

func (d *Dialog[T]) IsOpen() bool { return d.open }

func (d *Dialog[T]) SetName(name string) { d.name = name }

// SetScope selects a scope by id; ids not in the loaded list are ignored.
func (d *Dialog[T]) SetScope(id string) {
	if id == "" {
		d.scopeID = ""
		return
	}
	for _, s := range d.scopes {
		if s.ID == id {
			d.scopeID = id
			return
		}
	}
}

// Search runs one query combining the name and scope. Without either it
// sets a validation message and makes no call. A failed call keeps the
// previous results.
func (d *Dialog[T]) Search(ctx context.Context) error {
	name := strings.TrimSpace(d.name)
	if name == "" && d.scopeID == "" {
		d.errMsg = "Please enter a name or select a " + d.labels.ScopeName
		return ErrNoCriteria
	}

	d.errMsg = ""
	d.phase = Loading
	found, err := d.src.Find(ctx, name, d.scopeID)
	if err != nil {
		d.errMsg = "Failed to search " + d.labels.Noun
		d.phase = d.settled(d.results)
		return err
	}
	d.results = found
	d.phase = d.settled(found)
	return nil
}

func (d *Dialog[T]) settled(rows []T) Phase {
	if len(rows) == 0 {
		return Empty
	}
	return Results
}

// KeyPress triggers a search on Enter in the name field.
func (d *Dialog[T]) KeyPress(ctx context.Context, key string) error {
	if key != "Enter" {
		return nil
	}
	return d.Search(ctx)
}

// Select picks the i-th result, hands it back and closes the dialog.
func (d *Dialog[T]) Select(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(d.results) {
		return zero, false
	}
	return d.Choose(d.results[i]), true
}

// Choose forwards v as the selection and closes the dialog.
func (d *Dialog[T]) Choose(v T) T {
	d.Close()
	d.selected = &v
	return v
}

// Selected returns the last choice made before the dialog closed.
func (d *Dialog[T]) Selected() (T, bool) {
	if d.selected == nil {
		var zero T
		return zero, false
	}
	return *d.selected, true
}

// View is the render model of a dialog.
type View[T any] struct {
	Labels  Labels
	Open    bool
	Name    string
	ScopeID string
	Scopes  []Scope
	Phase   Phase
	Error   string
	Rows    []T
}

func (d *Dialog[T]) View() View[T] {
	return View[T]{
		Labels:  d.labels,
		Open:    d.open,
		Name:    d.name,
		ScopeID: d.scopeID,
		Scopes:  d.scopes,
		Phase:   d.phase,
		Error:   d.errMsg,
		Rows:    d.results,
	}
}
