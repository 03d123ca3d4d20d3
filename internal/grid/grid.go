// Package grid sorts and pages rows for the HTML tables.
package grid

import (
	"net/url"
	"sort"
	"strconv"
)

// PageSizes are the choices offered under every table.
var PageSizes = []int{10, 25, 50}

const DefaultPageSize = 10

// Params is the table state carried in the query string.
type Params struct {
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

// ParseParams reads sort, dir, page and size. Unknown page sizes fall back
// to the default.
func ParseParams(q url.Values) Params {
	p := Params{Sort: q.Get("sort"), Desc: q.Get("dir") == "desc", PageSize: DefaultPageSize}
	if n, err := strconv.Atoi(q.Get("size")); err == nil {
		for _, s := range PageSizes {
			if s == n {
				p.PageSize = n
			}
		}
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n - 1
	}
	return p
}

// Encode writes the params back into q, leaving defaults out.
func (p Params) Encode(q url.Values) {
	q.Del("sort")
	q.Del("dir")
	q.Del("page")
	q.Del("size")
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		if p.Desc {
			q.Set("dir", "desc")
		}
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page+1))
	}
	if p.PageSize != DefaultPageSize {
		q.Set("size", strconv.Itoa(p.PageSize))
	}
}

// Column describes one sortable column. A nil Less makes it unsortable.
type Column[T any] struct {
	Key   string
	Title string
	Less  func(a, b T) bool
}

// Page is one rendered slice of rows.
type Page[T any] struct {
	Rows     []T
	Total    int
	Page     int
	Pages    int
	PageSize int
	Params   Params
}

func (p Page[T]) HasPrev() bool { return p.Page > 0 }
func (p Page[T]) HasNext() bool { return p.Page+1 < p.Pages }

// From is the 1-based index of the first row shown.
func (p Page[T]) From() int {
	if p.Total == 0 {
		return 0
	}
	return p.Page*p.PageSize + 1
}

func (p Page[T]) To() int { return p.Page*p.PageSize + len(p.Rows) }

// Paginate sorts a copy of rows by the selected column and cuts out the
// requested page. Out-of-range pages clamp to the last one.
func Paginate[T any](rows []T, cols []Column[T], p Params) Page[T] {
	sorted := append([]T(nil), rows...)
	for _, c := range cols {
		if c.Key == p.Sort && c.Less != nil {
			less := c.Less
			if p.Desc {
				sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[j], sorted[i]) })
			} else {
				sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
			}
			break
		}
	}

	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(sorted) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page := p.Page
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	end := start + size
	if end > len(sorted) {
		end = len(sorted)
	}
	p.Page = page
	p.PageSize = size
	return Page[T]{Rows: sorted[start:end], Total: len(sorted), Page: page, Pages: pages, PageSize: size, Params: p}
}
