package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medadmin/m/domain"
	"medadmin/m/internal/forms"
	"medadmin/m/internal/grid"
	"medadmin/m/internal/kpi"
	"medadmin/m/internal/localdata"
)

// Pages over the browser-local ledger. None of them call the REST API.

type dashboardView struct {
	Cards []kpi.Card
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	k := kpi.Stock(store.Stock(), h.opts.Now())
	h.render(w, r, http.StatusOK, "dashboard.html", "Dashboard", dashboardView{Cards: k.Cards()})
}

var stockColumns = []grid.Column[domain.StockRecord]{
	{Key: "name", Title: "Medicine Name", Less: byText(func(r domain.StockRecord) string { return r.Name })},
	{Key: "batch", Title: "Batch No.", Less: byText(func(r domain.StockRecord) string { return r.Batch })},
	{Key: "quantity", Title: "Quantity", Less: byNumber(func(r domain.StockRecord) float64 { return float64(r.Quantity) })},
	{Key: "unit", Title: "Unit"},
	{Key: "expiry", Title: "Expiry Date", Less: byText(func(r domain.StockRecord) string { return r.Expiry })},
	{Key: "created", Title: "Added On", Less: byText(func(r domain.StockRecord) string { return r.CreatedDate })},
}

type stockListView struct {
	Query string
	Table table[domain.StockRecord]
}

func (h *Handler) stockList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	rows := localdata.FilterStock(store.Stock(), q)
	h.render(w, r, http.StatusOK, "stock_list.html", "Medicine Stock", stockListView{
		Query: q,
		Table: newTable(r.URL, stockColumns, rows),
	})
}

// ledgerID reads the {id} path parameter; a bad id reads as not found.
func ledgerID(r *http.Request) (int64, error) {
	id, err := localdata.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, localdata.ErrNotFound
	}
	return id, nil
}

func (h *Handler) missing(w http.ResponseWriter, r *http.Request, message, back, label string) {
	h.render(w, r, http.StatusNotFound, "missing.html", "Not found", missingView{Message: message, Back: back, Label: label})
}

// loadMedicineForm returns the form for the request's route: empty on add,
// filled on edit. ok is false once a response has been written.
func (h *Handler) loadMedicineForm(w http.ResponseWriter, r *http.Request, store *localdata.Store) (*forms.MedicineForm, bool) {
	if chi.URLParam(r, "id") == "" {
		return forms.NewMedicineForm(), true
	}
	id, err := ledgerID(r)
	if err == nil {
		var rec domain.StockRecord
		if rec, err = store.GetStock(id); err == nil {
			return forms.MedicineFormFor(rec), true
		}
	}
	h.missing(w, r, "Medicine item not found.", "/stock", "Back to Medicine Stock")
	return nil, false
}

func (h *Handler) stockForm(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	f, ok := h.loadMedicineForm(w, r, store)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "stock_form.html", f.Title(), f)
}

func (h *Handler) saveStock(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	f, ok := h.loadMedicineForm(w, r, store)
	if !ok {
		return
	}
	f.Bind(r.PostForm)
	if err := f.Submit(r.Context(), store); err != nil {
		if !errors.Is(err, forms.ErrInvalid) {
			h.log.Error("failed to save stock", "err", err)
		}
		h.render(w, r, http.StatusUnprocessableEntity, "stock_form.html", f.Title(), f)
		return
	}
	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

func (h *Handler) confirmStockDelete(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := ledgerID(r)
	var rec domain.StockRecord
	if err == nil {
		rec, err = store.GetStock(id)
	}
	if err != nil {
		h.missing(w, r, "Medicine item not found.", "/stock", "Back to Medicine Stock")
		return
	}
	h.render(w, r, http.StatusOK, "confirm.html", "Delete Medicine", confirmView{
		Message: "Are you sure you want to delete " + rec.Name + " (batch " + rec.Batch + ")?",
		Action:  r.URL.Path,
		Back:    "/stock",
	})
}

func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := ledgerID(r)
	if err == nil {
		err = store.DeleteStock(r.Context(), id)
	}
	switch {
	case errors.Is(err, localdata.ErrNotFound):
		h.missing(w, r, "Medicine item not found.", "/stock", "Back to Medicine Stock")
		return
	case err != nil:
		h.log.Error("failed to delete stock", "id", id, "err", err)
		h.render(w, r, http.StatusInternalServerError, "confirm.html", "Delete Medicine", confirmView{
			Action: r.URL.Path,
			Back:   "/stock",
			Error:  "Failed to delete medicine",
		})
		return
	}
	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

var purchaseLogColumns = []grid.Column[domain.PurchaseLog]{
	{Key: "date", Title: "Date", Less: byText(func(r domain.PurchaseLog) string { return r.Date })},
	{Key: "item", Title: "Item Name", Less: byText(func(r domain.PurchaseLog) string { return r.ItemName })},
	{Key: "batch", Title: "Batch"},
	{Key: "expiry", Title: "Expiry Date", Less: byText(func(r domain.PurchaseLog) string { return r.ExpiryDate })},
	{Key: "quantity", Title: "Quantity", Less: byNumber(func(r domain.PurchaseLog) float64 { return float64(r.Quantity) })},
	{Key: "unit", Title: "Unit"},
	{Key: "supplier", Title: "Supplier", Less: byText(func(r domain.PurchaseLog) string { return r.SupplierName })},
	{Key: "cost", Title: "Cost/Unit", Less: byNumber(func(r domain.PurchaseLog) float64 { return r.CostPerUnit })},
	{Key: "total", Title: "Total Cost", Less: byNumber(func(r domain.PurchaseLog) float64 { return float64(r.Quantity) * r.CostPerUnit })},
}

type purchaseLogListView struct {
	Query string
	Table table[domain.PurchaseLog]
}

func (h *Handler) purchaseLogList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	rows := localdata.FilterPurchaseLog(store.PurchaseLog(), q)
	h.render(w, r, http.StatusOK, "purchase_log_list.html", "Purchase Log", purchaseLogListView{
		Query: q,
		Table: newTable(r.URL, purchaseLogColumns, rows),
	})
}

type purchaseLogFormView struct {
	*forms.PurchaseLogForm
	Units []string
}

func (h *Handler) loadPurchaseLogForm(w http.ResponseWriter, r *http.Request, store *localdata.Store) (*forms.PurchaseLogForm, bool) {
	if chi.URLParam(r, "id") == "" {
		f := forms.NewPurchaseLogForm(store.Stock())
		f.Date = h.opts.Now().Format("2006-01-02")
		return f, true
	}
	id, err := ledgerID(r)
	if err == nil {
		var rec domain.PurchaseLog
		if rec, err = store.GetPurchaseLog(id); err == nil {
			return forms.PurchaseLogFormFor(rec, store.Stock()), true
		}
	}
	h.missing(w, r, "Purchase log entry not found.", "/purchase-log", "Back to Purchase Log")
	return nil, false
}

func (h *Handler) purchaseLogForm(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	f, ok := h.loadPurchaseLogForm(w, r, store)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "purchase_log_form.html", f.Title(), purchaseLogFormView{f, forms.LegacyUnits})
}

// savePurchaseLog also serves the "Recalculate" button, which re-renders
// the form with the derived total instead of saving.
func (h *Handler) savePurchaseLog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	f, ok := h.loadPurchaseLogForm(w, r, store)
	if !ok {
		return
	}
	f.Bind(r.PostForm)
	if r.PostForm.Get("action") == "recalc" {
		h.render(w, r, http.StatusOK, "purchase_log_form.html", f.Title(), purchaseLogFormView{f, forms.LegacyUnits})
		return
	}
	if err := f.Submit(r.Context(), store); err != nil {
		if !errors.Is(err, forms.ErrInvalid) {
			h.log.Error("failed to save purchase log", "err", err)
		}
		h.render(w, r, http.StatusUnprocessableEntity, "purchase_log_form.html", f.Title(), purchaseLogFormView{f, forms.LegacyUnits})
		return
	}
	http.Redirect(w, r, "/purchase-log", http.StatusSeeOther)
}

func (h *Handler) confirmPurchaseLogDelete(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := ledgerID(r)
	var rec domain.PurchaseLog
	if err == nil {
		rec, err = store.GetPurchaseLog(id)
	}
	if err != nil {
		h.missing(w, r, "Purchase log entry not found.", "/purchase-log", "Back to Purchase Log")
		return
	}
	h.render(w, r, http.StatusOK, "confirm.html", "Delete Purchase Log Entry", confirmView{
		Message: "Are you sure you want to delete the purchase of " + strconv.Itoa(rec.Quantity) + " " + rec.ItemName + " on " + rec.Date + "?",
		Action:  r.URL.Path,
		Back:    "/purchase-log",
	})
}

func (h *Handler) deletePurchaseLog(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := ledgerID(r)
	if err == nil {
		err = store.DeletePurchaseLog(r.Context(), id)
	}
	switch {
	case errors.Is(err, localdata.ErrNotFound):
		h.missing(w, r, "Purchase log entry not found.", "/purchase-log", "Back to Purchase Log")
		return
	case err != nil:
		h.log.Error("failed to delete purchase log", "id", id, "err", err)
		h.render(w, r, http.StatusInternalServerError, "confirm.html", "Delete Purchase Log Entry", confirmView{
			Action: r.URL.Path,
			Back:   "/purchase-log",
			Error:  "Failed to delete purchase log entry",
		})
		return
	}
	http.Redirect(w, r, "/purchase-log", http.StatusSeeOther)
}

var issueLogColumns = []grid.Column[domain.IssueLog]{
	{Key: "date", Title: "Issue Date", Less: byText(func(r domain.IssueLog) string { return r.IssueDate })},
	{Key: "medicine", Title: "Medicine", Less: byText(func(r domain.IssueLog) string { return r.MedicineName })},
	{Key: "quantity", Title: "Quantity", Less: byNumber(func(r domain.IssueLog) float64 { return float64(r.Quantity) })},
	{Key: "to", Title: "Issued To", Less: byText(func(r domain.IssueLog) string { return r.IssuedTo })},
}

type issueLogListView struct {
	Query string
	Table table[domain.IssueLog]
}

func (h *Handler) issueLogList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ledger(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	rows := localdata.FilterIssueLog(store.IssueLog(), q)
	h.render(w, r, http.StatusOK, "issue_log_list.html", "Issue Log", issueLogListView{
		Query: q,
		Table: newTable(r.URL, issueLogColumns, rows),
	})
}
