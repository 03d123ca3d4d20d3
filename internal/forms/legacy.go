package forms

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"medadmin/m/domain"
	"medadmin/m/internal/localdata"
)

// LegacyUnits are the unit choices on the purchase-log form. The first one
// is the default.
var LegacyUnits = []string{"Tablets", "Capsules", "Strips", "Bottles", "Sachets", "Tubes", "ml", "mg"}

// MedicineForm edits a legacy stock batch.
type MedicineForm struct {
	ID          int64  `form:"-"`
	Name        string `form:"name" label:"Medicine Name" validate:"required"`
	Batch       string `form:"batch" label:"Batch No."`
	Description string `form:"description" label:"Description"`
	Comment     string `form:"comment" label:"Comment"`
	Dosage      string `form:"dosage" label:"Dosage"`
	Unit        string `form:"unit" label:"Unit"`
	Quantity    string `form:"quantity" label:"Quantity" validate:"required,whole"`
	Expiry      string `form:"expiry" label:"Expiry Date" validate:"required,datetime=2006-01-02"`

	createdDate string
	Errors      map[string]string `form:"-"`
	Error       string            `form:"-"`
}

func NewMedicineForm() *MedicineForm { return &MedicineForm{} }

// MedicineFormFor fills the form from an existing batch.
func MedicineFormFor(r domain.StockRecord) *MedicineForm {
	return &MedicineForm{
		ID:          r.ID,
		Name:        r.Name,
		Batch:       r.Batch,
		Description: r.Description,
		Comment:     r.Comment,
		Dosage:      r.Dosage,
		Unit:        r.Unit,
		Quantity:    strconv.Itoa(r.Quantity),
		Expiry:      r.Expiry,
		createdDate: r.CreatedDate,
	}
}

func (f *MedicineForm) Editing() bool { return f.ID != 0 }

func (f *MedicineForm) Title() string {
	if f.Editing() {
		return "Edit Medicine Item"
	}
	return "Add New Medicine Item"
}

func (f *MedicineForm) Bind(v url.Values) {
	f.Name = strings.TrimSpace(v.Get("name"))
	f.Batch = strings.TrimSpace(v.Get("batch"))
	f.Description = v.Get("description")
	f.Comment = v.Get("comment")
	f.Dosage = strings.TrimSpace(v.Get("dosage"))
	f.Unit = strings.TrimSpace(v.Get("unit"))
	f.Quantity = strings.TrimSpace(v.Get("quantity"))
	f.Expiry = strings.TrimSpace(v.Get("expiry"))
}

func (f *MedicineForm) Record() domain.StockRecord {
	return domain.StockRecord{
		ID:          f.ID,
		Name:        f.Name,
		Batch:       f.Batch,
		Quantity:    atoi(f.Quantity),
		Expiry:      f.Expiry,
		Unit:        f.Unit,
		Description: f.Description,
		Comment:     f.Comment,
		Dosage:      f.Dosage,
		CreatedDate: f.createdDate,
	}
}

func (f *MedicineForm) Submit(ctx context.Context, store *localdata.Store) error {
	f.Error = ""
	if f.Errors = check(f); len(f.Errors) > 0 {
		return ErrInvalid
	}
	var err error
	if f.Editing() {
		err = store.EditStock(ctx, f.Record())
	} else {
		_, err = store.AddStock(ctx, f.Record())
	}
	if err != nil {
		f.Error = "Failed to save medicine"
	}
	return err
}

// PurchaseLogForm edits a legacy purchase entry. Its total is computed on
// demand from the quantity and cost fields.
type PurchaseLogForm struct {
	ID           int64  `form:"-"`
	Date         string `form:"date" label:"Date" validate:"required,datetime=2006-01-02"`
	ItemName     string `form:"itemName" label:"Item Name" validate:"required"`
	Batch        string `form:"batch" label:"Batch"`
	ExpiryDate   string `form:"expiryDate" label:"Expiry Date" validate:"omitempty,datetime=2006-01-02"`
	Quantity     string `form:"quantity" label:"Quantity Purchased" validate:"required,whole"`
	Unit         string `form:"unit" label:"Unit" validate:"required"`
	SupplierName string `form:"supplierName" label:"Supplier Name"`
	CostPerUnit  string `form:"costPerUnit" label:"Cost Per Unit" validate:"required,money"`

	ItemOptions []string          `form:"-"`
	Errors      map[string]string `form:"-"`
	Error       string            `form:"-"`
}

// NewPurchaseLogForm starts an empty entry; item choices come from the
// names in the stock ledger.
func NewPurchaseLogForm(stock []domain.StockRecord) *PurchaseLogForm {
	return &PurchaseLogForm{
		Quantity:    "0",
		Unit:        LegacyUnits[0],
		CostPerUnit: "0.00",
		ItemOptions: itemOptions(stock, ""),
	}
}

func PurchaseLogFormFor(r domain.PurchaseLog, stock []domain.StockRecord) *PurchaseLogForm {
	return &PurchaseLogForm{
		ID:           r.ID,
		Date:         r.Date,
		ItemName:     r.ItemName,
		Batch:        r.Batch,
		ExpiryDate:   r.ExpiryDate,
		Quantity:     strconv.Itoa(r.Quantity),
		Unit:         r.Unit,
		SupplierName: r.SupplierName,
		CostPerUnit:  decimal.NewFromFloat(r.CostPerUnit).StringFixed(2),
		ItemOptions:  itemOptions(stock, r.ItemName),
	}
}

func itemOptions(stock []domain.StockRecord, keep string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, r := range stock {
		add(r.Name)
	}
	add(keep)
	sort.Strings(out)
	return out
}

func (f *PurchaseLogForm) Editing() bool { return f.ID != 0 }

func (f *PurchaseLogForm) Title() string {
	if f.Editing() {
		return "Edit Purchase Log"
	}
	return "Add New Purchase Log"
}

func (f *PurchaseLogForm) SubmitLabel() string {
	if f.Editing() {
		return "Save Changes"
	}
	return "Log Purchase"
}

func (f *PurchaseLogForm) Bind(v url.Values) {
	f.Date = strings.TrimSpace(v.Get("date"))
	f.ItemName = v.Get("itemName")
	f.Batch = strings.TrimSpace(v.Get("batch"))
	f.ExpiryDate = strings.TrimSpace(v.Get("expiryDate"))
	f.Quantity = strings.TrimSpace(v.Get("quantity"))
	f.Unit = v.Get("unit")
	f.SupplierName = strings.TrimSpace(v.Get("supplierName"))
	f.CostPerUnit = strings.TrimSpace(v.Get("costPerUnit"))
}

// TotalCost is the displayed total for the current field values.
func (f *PurchaseLogForm) TotalCost() string {
	return TotalCost(f.Quantity, f.CostPerUnit)
}

// TotalCost multiplies quantity by unit cost, rounded to cents. Blank or
// non-numeric inputs count as zero.
func TotalCost(quantity, costPerUnit string) string {
	return factor(quantity).Mul(factor(costPerUnit)).Round(2).StringFixed(2)
}

func factor(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f *PurchaseLogForm) Record() domain.PurchaseLog {
	return domain.PurchaseLog{
		ID:           f.ID,
		Date:         f.Date,
		ItemName:     f.ItemName,
		Batch:        f.Batch,
		ExpiryDate:   f.ExpiryDate,
		Quantity:     atoi(f.Quantity),
		Unit:         f.Unit,
		SupplierName: f.SupplierName,
		CostPerUnit:  factor(f.CostPerUnit).InexactFloat64(),
	}
}

func (f *PurchaseLogForm) Submit(ctx context.Context, store *localdata.Store) error {
	f.Error = ""
	if f.Errors = check(f); len(f.Errors) > 0 {
		return ErrInvalid
	}
	var err error
	if f.Editing() {
		err = store.EditPurchaseLog(ctx, f.Record())
	} else {
		_, err = store.AddPurchaseLog(ctx, f.Record())
	}
	if err != nil {
		f.Error = "Failed to save purchase log"
	}
	return err
}

// LogTotal is the total of a saved purchase-log entry.
func LogTotal(r domain.PurchaseLog) string {
	return decimal.NewFromInt(int64(r.Quantity)).Mul(decimal.NewFromFloat(r.CostPerUnit)).Round(2).StringFixed(2)
}
