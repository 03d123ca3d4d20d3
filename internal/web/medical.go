package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"medadmin/m/internal/forms"
	"medadmin/m/internal/grid"
	"medadmin/m/internal/kpi"
	"medadmin/m/internal/listing"
	"medadmin/m/internal/service"
)

type medicalDashboardView struct {
	Cards []kpi.Card
	Links []kpi.Link
	Error string
}

func (h *Handler) medicalDashboard(w http.ResponseWriter, r *http.Request) {
	view := medicalDashboardView{Links: kpi.QuickLinks}
	items, err := service.NewItems(visitFrom(r).api).List(r.Context(), service.ItemQuery{})
	if unauthorized(w, r, err) {
		return
	}
	if err != nil {
		h.log.Error("failed to load dashboard data", "err", err)
		view.Error = "Failed to load dashboard data"
	}
	view.Cards = kpi.Medical(items).Cards()
	h.render(w, r, http.StatusOK, "medical_dashboard.html", "Medical Inventory", view)
}

var itemColumns = []grid.Column[listing.ItemRow]{
	{Key: "name", Title: "Item Name", Less: byText(func(r listing.ItemRow) string { return r.Item.Name })},
	{Key: "unit", Title: "Unit", Less: byText(func(r listing.ItemRow) string { return r.Item.Unit })},
	{Key: "stock", Title: "Current Stock", Less: byNumber(func(r listing.ItemRow) float64 { return float64(r.Item.CurrentStock) })},
	{Key: "reorder", Title: "Reorder Level", Less: byNumber(func(r listing.ItemRow) float64 { return float64(r.Item.ReorderLevel) })},
	{Key: "status", Title: "Status"},
}

type itemListView struct {
	Back           string
	Search         string
	IncludeDeleted bool
	Error          string
	Table          table[listing.ItemRow]
}

func (h *Handler) itemList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	l := listing.NewItemList(visitFrom(r).api, h.log)
	var err error
	if q.Has("clear") {
		err = l.Clear(r.Context())
	} else {
		l.Search = q.Get("search")
		l.IncludeDeleted = q.Get("includeDeleted") == "true"
		err = l.Load(r.Context())
	}
	if unauthorized(w, r, err) {
		return
	}
	h.render(w, r, http.StatusOK, "item_list.html", "Inventory Items", itemListView{
		Back:           r.URL.RequestURI(),
		Search:         l.Search,
		IncludeDeleted: l.IncludeDeleted,
		Error:          l.Error,
		Table:          newTable(r.URL, itemColumns, l.Rows()),
	})
}

func (h *Handler) itemForm(w http.ResponseWriter, r *http.Request) {
	f, err := forms.LoadItemForm(r.Context(), visitFrom(r).api, h.log, chi.URLParam(r, "id"))
	if unauthorized(w, r, err) {
		return
	}
	h.render(w, r, http.StatusOK, "item_form.html", f.Title(), f)
}

func (h *Handler) saveItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	v := visitFrom(r)
	f, err := forms.LoadItemForm(r.Context(), v.api, h.log, chi.URLParam(r, "id"))
	if unauthorized(w, r, err) {
		return
	}
	f.Bind(r.PostForm)
	if err := f.Submit(r.Context(), v.api); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "item_form.html", f.Title(), f)
		return
	}
	http.Redirect(w, r, "/medical/items", http.StatusSeeOther)
}

func (h *Handler) confirmItemDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := service.NewItems(visitFrom(r).api).Get(r.Context(), id)
	if unauthorized(w, r, err) {
		return
	}
	name := item.Name
	if err != nil || name == "" {
		name = "this item"
	}
	h.render(w, r, http.StatusOK, "confirm.html", "Delete Item", confirmView{
		Message: "Are you sure you want to delete " + name + "?",
		Action:  r.URL.Path,
		Back:    localPath(r.URL.Query().Get("back"), "/medical/items"),
	})
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	back := localPath(r.PostForm.Get("back"), "/medical/items")
	l := listing.NewItemList(visitFrom(r).api, h.log)
	if err := l.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusBadGateway, "confirm.html", "Delete Item", confirmView{Action: r.URL.Path, Back: back, Error: l.Error})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
