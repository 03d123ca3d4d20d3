package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"medadmin/m/domain"
	"medadmin/m/internal/export"
	"medadmin/m/internal/forms"
	"medadmin/m/internal/grid"
	"medadmin/m/internal/listing"
	"medadmin/m/internal/service"
)

type issueRow = listing.Row[domain.IssueRecord]

var issueColumns = []grid.Column[issueRow]{
	{Key: "item", Title: "Item", Less: byText(func(r issueRow) string { return r.Record.ItemName })},
	{Key: "date", Title: "Issue Date", Less: byText(func(r issueRow) string { return r.Record.IssueDate })},
	{Key: "to", Title: "Issued To", Less: byText(func(r issueRow) string { return r.Record.Recipient().Display() })},
	{Key: "type", Title: "Type", Less: byText(func(r issueRow) string { return string(r.Record.EntityType) })},
	{Key: "quantity", Title: "Quantity", Less: byNumber(func(r issueRow) float64 { return float64(r.Record.Quantity) })},
	{Key: "remarks", Title: "Remarks"},
	{Key: "consent", Title: "Parent Consent"},
}

type issueListView struct {
	Back           string
	ExportURL      string
	ClearEntityURL string
	// EntityHidden re-posts a resolved selection with the next search.
	EntityHidden url.Values
	Filter       listing.IssueFilter
	EntityTypes  []domain.EntityType
	Items        []domain.InventoryItem
	Error        string
	Table        table[issueRow]
}

// issueFilter reads a submitted filter. When the "issued to" type select
// changed since the page rendered, the selection made under the old type is
// dropped. An id typed in the same submission is kept for the new type.
func issueFilter(q url.Values) listing.IssueFilter {
	f := listing.ParseIssueFilter(q)
	prev, ok := q["prevEntityType"]
	if !ok || prev[0] == string(f.Entity.Type()) {
		return f
	}
	f.Entity = listing.SwitchEntityType(nil, f.Entity.Type())
	if id := q.Get("entityId"); id != "" && id != q.Get("prevEntityId") && q.Get("entityName") == "" {
		f.Entity = listing.WithTypedID(f.Entity, id)
	}
	return f
}

func (h *Handler) loadIssueList(r *http.Request) (*listing.IssueList, error) {
	q := r.URL.Query()
	l := listing.NewIssueList(visitFrom(r).api, h.log)
	switch {
	case q.Has("clear"):
		itemsErr := l.RefreshItems(r.Context())
		return l, joinUnauthorized(itemsErr, l.Clear(r.Context()))
	case q.Get("filter") == "1":
		itemsErr := l.RefreshItems(r.Context())
		l.Filter = issueFilter(q)
		return l, joinUnauthorized(itemsErr, l.Search(r.Context()))
	default:
		return l, l.Mount(r.Context(), q.Get("item"))
	}
}

func (h *Handler) issueList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("find") {
		f := issueFilter(q)
		if t := f.Entity.Type(); t != "" {
			ret := "/medical/issues?" + f.Values().Encode()
			http.Redirect(w, r, searchURL(t, ret, targetFilter), http.StatusSeeOther)
			return
		}
	}

	l, err := h.loadIssueList(r)
	if unauthorized(w, r, err) {
		return
	}
	cleared := l.Filter
	cleared.Entity = listing.WithTypedID(l.Filter.Entity, "")
	hidden := url.Values{}
	if l.Filter.Entity.Display() != "" {
		all := l.Filter.Values()
		for _, k := range []string{"entityId", "entityName", "entityCode", "entityGroup"} {
			if vs, ok := all[k]; ok {
				hidden[k] = vs
			}
		}
	}
	h.render(w, r, http.StatusOK, "issue_list.html", "Issue Log", issueListView{
		Back:           r.URL.RequestURI(),
		ExportURL:      "/medical/issues/export?" + l.Filter.Values().Encode(),
		ClearEntityURL: "/medical/issues?" + cleared.Values().Encode(),
		EntityHidden:   hidden,
		Filter:         l.Filter,
		EntityTypes:    []domain.EntityType{domain.EntityStudent, domain.EntityEmployee},
		Items:          l.Items,
		Error:          l.Error,
		Table:          newTable(r.URL, issueColumns, l.Rows()),
	})
}

func (h *Handler) exportIssues(w http.ResponseWriter, r *http.Request) {
	l, err := h.loadIssueList(r)
	if unauthorized(w, r, err) {
		return
	}
	if l.Error != "" {
		http.Error(w, l.Error, http.StatusBadGateway)
		return
	}
	rows := l.Rows()
	records := make([]domain.IssueRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record)
	}
	body, err := export.Issues(records)
	if err != nil {
		h.log.Error("failed to export issues", "err", err)
		http.Error(w, "unable to export issues", http.StatusInternalServerError)
		return
	}
	writeXLSX(w, "issues", h.opts.Now(), body)
}

type issueFormView struct {
	*forms.IssueForm
	Action string
	// Hidden carries the picked recipient; the type select posts its own
	// entity_type.
	Hidden url.Values
}

func newIssueFormView(f *forms.IssueForm, action string) issueFormView {
	hidden := forms.RecipientValues(f.Recipient)
	hidden.Del("entity_type")
	return issueFormView{IssueForm: f, Action: action, Hidden: hidden}
}

// issueForm renders add and edit. A draft coming back from the search
// dialog (draft=1) is bound over the loaded values.
func (h *Handler) issueForm(w http.ResponseWriter, r *http.Request) {
	f, err := forms.LoadIssueForm(r.Context(), visitFrom(r).api, h.log, chi.URLParam(r, "id"), h.opts.Now())
	if unauthorized(w, r, err) {
		return
	}
	q := r.URL.Query()
	if q.Get("draft") == "1" {
		f.Bind(q)
	} else if id := q.Get("item"); id != "" && !f.Editing() {
		f.ItemID = id
	}
	h.render(w, r, http.StatusOK, "issue_form.html", f.Title(), newIssueFormView(f, r.URL.Path))
}

// saveIssue submits the form, or with action=find parks the draft in the
// URL and opens the search dialog for the chosen recipient type.
func (h *Handler) saveIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	v := visitFrom(r)
	f, err := forms.LoadIssueForm(r.Context(), v.api, h.log, chi.URLParam(r, "id"), h.opts.Now())
	if unauthorized(w, r, err) {
		return
	}
	f.Bind(r.PostForm)

	if r.PostForm.Get("action") == "find" {
		ret := r.URL.Path + "?" + f.Values().Encode()
		http.Redirect(w, r, searchURL(f.Recipient.Kind(), ret, targetForm), http.StatusSeeOther)
		return
	}

	if err := f.Submit(r.Context(), v.api); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "issue_form.html", f.Title(), newIssueFormView(f, r.URL.Path))
		return
	}
	http.Redirect(w, r, "/medical/issues", http.StatusSeeOther)
}

func (h *Handler) confirmIssueDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := service.NewIssues(visitFrom(r).api).Get(r.Context(), chi.URLParam(r, "id"))
	if unauthorized(w, r, err) {
		return
	}
	msg := "Are you sure you want to delete this issue?"
	if err == nil && rec.ItemName != "" {
		msg = "Are you sure you want to delete the issue of " + rec.ItemName + " to " + rec.Recipient().Display() + "?"
	}
	h.render(w, r, http.StatusOK, "confirm.html", "Delete Issue", confirmView{
		Message: msg,
		Action:  r.URL.Path,
		Back:    localPath(r.URL.Query().Get("back"), "/medical/issues"),
	})
}

func (h *Handler) deleteIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	back := localPath(r.PostForm.Get("back"), "/medical/issues")
	l := listing.NewIssueList(visitFrom(r).api, h.log)
	if err := l.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusBadGateway, "confirm.html", "Delete Issue", confirmView{Action: r.URL.Path, Back: back, Error: l.Error})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
