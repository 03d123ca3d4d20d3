package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"medadmin/m/domain"
	"medadmin/m/internal/forms"
	"medadmin/m/internal/grid"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates maps a page file to its parsed set (layout, partials, page).
type templates map[string]*template.Template

var funcs = template.FuncMap{
	"date":      domain.DateOnly,
	"cost":      formatCost,
	"lineTotal": lineTotal,
	"logTotal":  forms.LogTotal,
	"itemLabel": forms.ItemLabel,
	"active":    active,
}

func parseTemplates() templates {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	t := templates{}
	for _, f := range files {
		name := path.Base(f)
		if name == "layout.html" || name == "partials.html" {
			continue
		}
		t[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", f))
	}
	return t
}

// page is what every template receives; Data is the page's own model.
type page struct {
	Title  string
	Path   string
	User   domain.User
	School string
	Data   any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	p := page{Title: title, Path: r.URL.Path, Data: data}
	// Signed-out pages render without the sidebar and header.
	layout := "bare"
	if v := visitFrom(r); v != nil {
		if u, ok := v.session.User(); ok {
			p.User = u
			layout = "layout"
		}
		p.School = v.school
	}
	tmpl, ok := h.tmpl[name]
	if !ok {
		h.log.Error("unknown template", "name", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layout, p); err != nil {
		h.log.Error("failed to render page", "template", name, "err", err)
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func formatCost(c *float64) string {
	if c == nil {
		return "-"
	}
	return strconv.FormatFloat(*c, 'f', 2, 64)
}

func lineTotal(r domain.PurchaseRecord) string {
	if r.CostPerUnit == nil {
		return "-"
	}
	return forms.TotalCost(strconv.Itoa(r.Quantity), strconv.FormatFloat(*r.CostPerUnit, 'f', -1, 64))
}

// active reports whether the sidebar entry for prefix is the current page.
func active(current, prefix string) bool {
	switch prefix {
	case "/", "/medical":
		return current == prefix || current == prefix+"/"
	}
	return current == prefix || strings.HasPrefix(current, prefix+"/")
}

// confirmView backs the delete confirmation page.
type confirmView struct {
	Message string
	Action  string
	Back    string
	Error   string
}

// missingView is shown when an edit page is opened for an unknown id.
type missingView struct {
	Message string
	Back    string
	Label   string
}

type column struct {
	Title string
	URL   string
	Arrow string
}

type sizeLink struct {
	Size    int
	URL     string
	Current bool
}

type pager struct {
	Total   int
	From    int
	To      int
	Page    int
	Pages   int
	PrevURL string
	NextURL string
	Sizes   []sizeLink
}

type table[T any] struct {
	Columns []column
	Rows    []T
	Pager   pager
}

// newTable sorts and pages rows with the grid state carried in u, and
// builds the header and pager links that move it.
func newTable[T any](u *url.URL, cols []grid.Column[T], rows []T) table[T] {
	pg := grid.Paginate(rows, cols, grid.ParseParams(u.Query()))
	t := table[T]{Rows: pg.Rows}

	for _, c := range cols {
		col := column{Title: c.Title}
		if c.Less != nil {
			next := pg.Params
			next.Page = 0
			if next.Sort == c.Key {
				if next.Desc {
					col.Arrow = "▼"
				} else {
					col.Arrow = "▲"
				}
				next.Desc = !next.Desc
			} else {
				next.Sort = c.Key
				next.Desc = false
			}
			col.URL = withParams(u, next)
		}
		t.Columns = append(t.Columns, col)
	}

	t.Pager = pager{Total: pg.Total, From: pg.From(), To: pg.To(), Page: pg.Page + 1, Pages: pg.Pages}
	if pg.HasPrev() {
		prev := pg.Params
		prev.Page--
		t.Pager.PrevURL = withParams(u, prev)
	}
	if pg.HasNext() {
		next := pg.Params
		next.Page++
		t.Pager.NextURL = withParams(u, next)
	}
	for _, size := range grid.PageSizes {
		p := pg.Params
		p.Page = 0
		p.PageSize = size
		t.Pager.Sizes = append(t.Pager.Sizes, sizeLink{Size: size, URL: withParams(u, p), Current: size == pg.PageSize})
	}
	return t
}

func withParams(u *url.URL, p grid.Params) string {
	q := u.Query()
	p.Encode(q)
	if len(q) == 0 {
		return u.Path
	}
	return u.Path + "?" + q.Encode()
}

func byText[T any](field func(T) string) func(a, b T) bool {
	return func(a, b T) bool { return strings.ToLower(field(a)) < strings.ToLower(field(b)) }
}

func byNumber[T any](field func(T) float64) func(a, b T) bool {
	return func(a, b T) bool { return field(a) < field(b) }
}
