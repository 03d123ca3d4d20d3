package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"medadmin/m/domain"
	"medadmin/m/internal/forms"
	"medadmin/m/internal/listing"
	"medadmin/m/internal/search"
)

// A dialog returns its pick either to the issue form or to the issue list
// filter; the two use different query keys.
const (
	targetForm   = "form"
	targetFilter = "filter"
)

var (
	formEntityKeys   = []string{"entity_type", "entity_id", "entity_name", "entity_code", "entity_group", "prev_entity_type"}
	filterEntityKeys = []string{"entityType", "entityId", "entityName", "entityCode", "entityGroup", "prevEntityType", "prevEntityId"}
)

func searchURL(kind domain.EntityType, ret, target string) string {
	path := "/search/students"
	if kind == domain.EntityEmployee {
		path = "/search/employees"
	}
	return path + "?" + url.Values{"return": {ret}, "target": {target}}.Encode()
}

type searchRow struct {
	Cells []string
	ID    string
	Name  string
	Code  string
	Group string
}

type searchView struct {
	Labels  search.Labels
	Action  string
	Return  string
	Target  string
	Name    string
	ScopeID string
	Scopes  []search.Scope
	Phase   string
	Error   string
	Columns []string
	Rows    []searchRow
}

func returnTarget(q url.Values) (ret, target string) {
	target = q.Get("target")
	fallback := "/medical/issues/add"
	if target == targetFilter {
		fallback = "/medical/issues"
	} else {
		target = targetForm
	}
	return localPath(q.Get("return"), fallback), target
}

// runDialog opens a fresh dialog and, when the form was submitted, runs
// the search. Nothing carries over from earlier openings.
func runDialog[T any](ctx context.Context, d *search.Dialog[T], q url.Values) error {
	d.Open(ctx)
	d.SetName(q.Get("name"))
	d.SetScope(q.Get("scope"))
	if !q.Has("go") {
		return nil
	}
	err := d.Search(ctx)
	if errors.Is(err, search.ErrNoCriteria) {
		return nil
	}
	return err
}

func newSearchView[T any](d *search.Dialog[T], action string, q url.Values, columns []string, row func(T) searchRow) searchView {
	dv := d.View()
	ret, target := returnTarget(q)
	view := searchView{
		Labels:  dv.Labels,
		Action:  action,
		Return:  ret,
		Target:  target,
		Name:    dv.Name,
		ScopeID: dv.ScopeID,
		Scopes:  dv.Scopes,
		Phase:   dv.Phase.String(),
		Error:   dv.Error,
		Columns: columns,
	}
	for _, r := range dv.Rows {
		view.Rows = append(view.Rows, row(r))
	}
	return view
}

func (h *Handler) searchStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := search.NewStudentDialog(visitFrom(r).api, h.log)
	if err := runDialog(r.Context(), d, q); unauthorized(w, r, err) {
		return
	}
	view := newSearchView(d, "/search/students", q, []string{"Name", "Admission No.", "Class"},
		func(s domain.Student) searchRow {
			return searchRow{
				Cells: []string{s.Name, s.AdmissionNo, s.ClassName},
				ID:    s.UUID, Name: s.Name, Code: s.AdmissionNo, Group: s.ClassName,
			}
		})
	h.render(w, r, http.StatusOK, "search.html", view.Labels.Title, view)
}

func (h *Handler) searchEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := search.NewEmployeeDialog(visitFrom(r).api, h.log)
	if err := runDialog(r.Context(), d, q); unauthorized(w, r, err) {
		return
	}
	view := newSearchView(d, "/search/employees", q, []string{"Name", "Employee ID", "Department"},
		func(e domain.Employee) searchRow {
			return searchRow{
				Cells: []string{e.Name, e.EmployeeID, e.DepartmentName},
				ID:    e.UUID, Name: e.Name, Code: e.EmployeeID, Group: e.DepartmentName,
			}
		})
	h.render(w, r, http.StatusOK, "search.html", view.Labels.Title, view)
}

func (h *Handler) chooseStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := search.NewStudentDialog(visitFrom(r).api, h.log).Choose(domain.Student{
		UUID:        r.PostForm.Get("id"),
		Name:        r.PostForm.Get("name"),
		AdmissionNo: r.PostForm.Get("code"),
		ClassName:   r.PostForm.Get("group"),
	})
	ret, target := returnTarget(r.PostForm)
	picked := forms.StudentValues(s)
	if target == targetFilter {
		picked = listing.IssueFilter{Entity: listing.StudentEntity{Student: &s}}.Values()
	}
	http.Redirect(w, r, withPick(ret, target, picked), http.StatusSeeOther)
}

func (h *Handler) chooseEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	e := search.NewEmployeeDialog(visitFrom(r).api, h.log).Choose(domain.Employee{
		UUID:           r.PostForm.Get("id"),
		Name:           r.PostForm.Get("name"),
		EmployeeID:     r.PostForm.Get("code"),
		DepartmentName: r.PostForm.Get("group"),
	})
	ret, target := returnTarget(r.PostForm)
	picked := forms.EmployeeValues(e)
	if target == targetFilter {
		picked = listing.IssueFilter{Entity: listing.EmployeeEntity{Employee: &e}}.Values()
	}
	http.Redirect(w, r, withPick(ret, target, picked), http.StatusSeeOther)
}

// withPick replaces the recipient keys of ret with the picked ones and
// leaves every other draft or filter value alone.
func withPick(ret, target string, picked url.Values) string {
	keys := formEntityKeys
	if target == targetFilter {
		keys = filterEntityKeys
	}
	u, err := url.Parse(ret)
	if err != nil {
		return ret
	}
	q := u.Query()
	for _, k := range keys {
		q.Del(k)
	}
	for _, k := range keys {
		if vs, ok := picked[k]; ok {
			q[k] = vs
		}
	}
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
