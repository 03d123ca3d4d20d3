package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medadmin/m/domain"
	"medadmin/m/internal/export"
	"medadmin/m/internal/forms"
	"medadmin/m/internal/grid"
	"medadmin/m/internal/listing"
	"medadmin/m/internal/service"
)

type purchaseRow = listing.Row[domain.PurchaseRecord]

var purchaseColumns = []grid.Column[purchaseRow]{
	{Key: "item", Title: "Item", Less: byText(func(r purchaseRow) string { return r.Record.ItemName })},
	{Key: "date", Title: "Purchase Date", Less: byText(func(r purchaseRow) string { return r.Record.PurchaseDate })},
	{Key: "quantity", Title: "Quantity", Less: byNumber(func(r purchaseRow) float64 { return float64(r.Record.Quantity) })},
	{Key: "batch", Title: "Batch No."},
	{Key: "expiry", Title: "Expiry Date", Less: byText(func(r purchaseRow) string { return r.Record.ExpiryDate })},
	{Key: "supplier", Title: "Supplier", Less: byText(func(r purchaseRow) string { return r.Record.Supplier })},
	{Key: "invoice", Title: "Invoice"},
	{Key: "cost", Title: "Cost/Unit", Less: byNumber(func(r purchaseRow) float64 { return costOf(r.Record) })},
	{Key: "total", Title: "Total"},
}

func costOf(r domain.PurchaseRecord) float64 {
	if r.CostPerUnit == nil {
		return 0
	}
	return *r.CostPerUnit
}

type purchaseListView struct {
	Back      string
	ExportURL string
	Filter    listing.PurchaseFilter
	Items     []domain.InventoryItem
	Error     string
	Table     table[purchaseRow]
}

// loadPurchaseList runs the page's first fetch. A plain visit mounts the
// list, honouring a carried ?item=; a submitted filter (filter=1) or a
// clear request reloads the reference list and fetches accordingly.
func (h *Handler) loadPurchaseList(r *http.Request) (*listing.PurchaseList, error) {
	q := r.URL.Query()
	l := listing.NewPurchaseList(visitFrom(r).api, h.log)
	switch {
	case q.Has("clear"):
		itemsErr := l.RefreshItems(r.Context())
		return l, joinUnauthorized(itemsErr, l.Clear(r.Context()))
	case q.Get("filter") == "1":
		itemsErr := l.RefreshItems(r.Context())
		l.Filter = listing.ParsePurchaseFilter(q)
		return l, joinUnauthorized(itemsErr, l.Search(r.Context()))
	default:
		return l, l.Mount(r.Context(), q.Get("item"))
	}
}

func (h *Handler) purchaseList(w http.ResponseWriter, r *http.Request) {
	l, err := h.loadPurchaseList(r)
	if unauthorized(w, r, err) {
		return
	}
	h.render(w, r, http.StatusOK, "purchase_list.html", "Purchase Log", purchaseListView{
		Back:      r.URL.RequestURI(),
		ExportURL: "/medical/purchases/export?" + l.Filter.Values().Encode(),
		Filter:    l.Filter,
		Items:     l.Items,
		Error:     l.Error,
		Table:     newTable(r.URL, purchaseColumns, l.Rows()),
	})
}

func (h *Handler) exportPurchases(w http.ResponseWriter, r *http.Request) {
	l, err := h.loadPurchaseList(r)
	if unauthorized(w, r, err) {
		return
	}
	if l.Error != "" {
		http.Error(w, l.Error, http.StatusBadGateway)
		return
	}
	rows := l.Rows()
	records := make([]domain.PurchaseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record)
	}
	body, err := export.Purchases(records)
	if err != nil {
		h.log.Error("failed to export purchases", "err", err)
		http.Error(w, "unable to export purchases", http.StatusInternalServerError)
		return
	}
	writeXLSX(w, "purchases", h.opts.Now(), body)
}

func writeXLSX(w http.ResponseWriter, name string, now time.Time, body []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+"-"+now.Format("2006-01-02")+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type purchaseFormView struct {
	*forms.PurchaseForm
	Action string
}

func (h *Handler) purchaseForm(w http.ResponseWriter, r *http.Request) {
	f, err := forms.LoadPurchaseForm(r.Context(), visitFrom(r).api, h.log, chi.URLParam(r, "id"), h.opts.Now())
	if unauthorized(w, r, err) {
		return
	}
	if !f.Editing() {
		if id := r.URL.Query().Get("item"); id != "" {
			f.ItemID = id
		}
	}
	h.render(w, r, http.StatusOK, "purchase_form.html", f.Title(), purchaseFormView{f, r.URL.Path})
}

func (h *Handler) savePurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	v := visitFrom(r)
	f, err := forms.LoadPurchaseForm(r.Context(), v.api, h.log, chi.URLParam(r, "id"), h.opts.Now())
	if unauthorized(w, r, err) {
		return
	}
	f.Bind(r.PostForm)
	if err := f.Submit(r.Context(), v.api); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "purchase_form.html", f.Title(), purchaseFormView{f, r.URL.Path})
		return
	}
	http.Redirect(w, r, "/medical/purchases", http.StatusSeeOther)
}

func (h *Handler) confirmPurchaseDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := service.NewPurchases(visitFrom(r).api).Get(r.Context(), chi.URLParam(r, "id"))
	if unauthorized(w, r, err) {
		return
	}
	msg := "Are you sure you want to delete this purchase?"
	if err == nil && rec.ItemName != "" {
		msg = "Are you sure you want to delete the purchase of " + rec.ItemName + " on " + domain.DateOnly(rec.PurchaseDate) + "?"
	}
	h.render(w, r, http.StatusOK, "confirm.html", "Delete Purchase", confirmView{
		Message: msg,
		Action:  r.URL.Path,
		Back:    localPath(r.URL.Query().Get("back"), "/medical/purchases"),
	})
}

func (h *Handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	back := localPath(r.PostForm.Get("back"), "/medical/purchases")
	l := listing.NewPurchaseList(visitFrom(r).api, h.log)
	if err := l.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if unauthorized(w, r, err) {
			return
		}
		h.render(w, r, http.StatusBadGateway, "confirm.html", "Delete Purchase", confirmView{Action: r.URL.Path, Back: back, Error: l.Error})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// joinUnauthorized keeps a 401 from the reference-list load visible to
// the caller. Other reference failures are already logged by the list.
func joinUnauthorized(itemsErr, err error) error {
	if isUnauthorized(itemsErr) {
		return itemsErr
	}
	return err
}
