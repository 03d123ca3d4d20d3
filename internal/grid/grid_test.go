package grid

import (
	"net/url"
	"testing"
)

type row struct {
	name string
	qty  int
}

var cols = []Column[row]{
	{Key: "name", Title: "Name", Less: func(a, b row) bool { return a.name < b.name }},
	{Key: "qty", Title: "Quantity", Less: func(a, b row) bool { return a.qty < b.qty }},
	{Key: "actions", Title: "Actions"},
}

func TestPaginateSortsAndPages(t *testing.T) {
	var rows []row
	for i := 0; i < 23; i++ {
		rows = append(rows, row{name: string(rune('a' + i)), qty: i})
	}

	p := Paginate(rows, cols, Params{Sort: "qty", Desc: true, Page: 2, PageSize: 10})
	if p.Pages != 3 || p.Total != 23 || len(p.Rows) != 3 {
		t.Fatalf("page = %+v", p)
	}
	if p.Rows[0].qty != 2 || p.Rows[2].qty != 0 {
		t.Errorf("rows = %v", p.Rows)
	}
	if p.From() != 21 || p.To() != 23 || p.HasNext() || !p.HasPrev() {
		t.Errorf("bounds from=%d to=%d", p.From(), p.To())
	}
	if rows[0].qty != 0 {
		t.Error("input slice must not be reordered")
	}

	clamped := Paginate(rows, cols, Params{Page: 9, PageSize: 25})
	if clamped.Page != 0 || len(clamped.Rows) != 23 {
		t.Errorf("clamped = %+v", clamped)
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate[row](nil, cols, Params{Sort: "actions"})
	if p.Pages != 1 || p.From() != 0 || len(p.Rows) != 0 {
		t.Errorf("empty page = %+v", p)
	}
}

func TestParseParams(t *testing.T) {
	q, _ := url.ParseQuery("sort=name&dir=desc&page=3&size=25")
	p := ParseParams(q)
	if p != (Params{Sort: "name", Desc: true, Page: 2, PageSize: 25}) {
		t.Errorf("params = %+v", p)
	}
	if got := ParseParams(url.Values{"size": {"7"}}).PageSize; got != DefaultPageSize {
		t.Errorf("size = %d", got)
	}

	out := url.Values{"item": {"x"}}
	p.Encode(out)
	if got := out.Encode(); got != "dir=desc&item=x&page=3&size=25&sort=name" {
		t.Errorf("encoded = %q", got)
	}
}
