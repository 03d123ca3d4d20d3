package forms

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"medadmin/m/domain"
	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/service"
)

// PurchaseForm is the add/edit form for a purchase record.
type PurchaseForm struct {
	ID            string        `form:"-"`
	ItemID        string        `form:"itemId" label:"Item" validate:"required"`
	PurchaseDate  string        `form:"purchaseDate" label:"Purchase Date" validate:"required,datetime=2006-01-02"`
	Quantity      string        `form:"quantity" label:"Quantity" validate:"required,positive"`
	BatchNo       string        `form:"batchNo" label:"Batch Number"`
	ExpiryDate    string        `form:"expiryDate" label:"Expiry Date" validate:"omitempty,datetime=2006-01-02"`
	Supplier      string        `form:"supplier" label:"Supplier"`
	InvoiceNumber string        `form:"invoiceNumber" label:"Invoice Number"`
	CostPerUnit   string        `form:"costPerUnit" label:"Cost per Unit" validate:"omitempty,money"`
	Status        domain.Status `form:"status" label:"Status" validate:"omitempty,oneof=active deleted"`

	Items  []domain.InventoryItem `form:"-"`
	Errors map[string]string      `form:"-"`
	Error  string                 `form:"-"`
}

func LoadPurchaseForm(ctx context.Context, api service.API, log *slog.Logger, id string, today time.Time) (*PurchaseForm, error) {
	if log == nil {
		log = slog.Default()
	}
	f := &PurchaseForm{ID: id, PurchaseDate: today.Format(dateLayout), Status: domain.StatusActive}
	var itemsErr, recErr error
	var rec domain.PurchaseRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := service.NewItems(api).List(gctx, service.ItemQuery{})
		if err != nil {
			log.Error("failed to load items", "err", err)
			itemsErr = err
			return nil
		}
		f.Items = items
		return nil
	})
	if id != "" {
		g.Go(func() error {
			rec, recErr = service.NewPurchases(api).Get(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	if id != "" {
		if recErr != nil {
			f.Error = "Failed to load purchase"
		} else {
			f.ItemID = rec.ItemID
			f.PurchaseDate = domain.DateOnly(rec.PurchaseDate)
			f.Quantity = strconv.Itoa(rec.Quantity)
			f.BatchNo = rec.BatchNo
			f.ExpiryDate = domain.DateOnly(rec.ExpiryDate)
			f.Supplier = rec.Supplier
			f.InvoiceNumber = rec.InvoiceNumber
			if rec.CostPerUnit != nil {
				f.CostPerUnit = decimal.NewFromFloat(*rec.CostPerUnit).String()
			}
			if rec.Status != "" {
				f.Status = rec.Status
			}
		}
	}
	return f, errors.Join(itemsErr, recErr)
}

func (f *PurchaseForm) Editing() bool { return f.ID != "" }

func (f *PurchaseForm) Title() string {
	if f.Editing() {
		return "Edit Purchase"
	}
	return "Add New Purchase"
}

func (f *PurchaseForm) SubmitLabel() string {
	if f.Editing() {
		return "Save Changes"
	}
	return "Create Purchase"
}

// ItemName is the display name of the chosen item.
func (f *PurchaseForm) ItemName() string {
	if item, ok := domain.FindItem(f.Items, f.ItemID); ok {
		return item.Name
	}
	return ""
}

// Bind copies posted values. The item is fixed once a purchase exists.
func (f *PurchaseForm) Bind(v url.Values) {
	if !f.Editing() {
		f.ItemID = v.Get("itemId")
	}
	f.PurchaseDate = strings.TrimSpace(v.Get("purchaseDate"))
	f.Quantity = strings.TrimSpace(v.Get("quantity"))
	f.BatchNo = strings.TrimSpace(v.Get("batchNo"))
	f.ExpiryDate = strings.TrimSpace(v.Get("expiryDate"))
	f.Supplier = strings.TrimSpace(v.Get("supplier"))
	f.InvoiceNumber = strings.TrimSpace(v.Get("invoiceNumber"))
	f.CostPerUnit = strings.TrimSpace(v.Get("costPerUnit"))
	if f.Editing() {
		f.Status = domain.Status(v.Get("status"))
	}
}

// Cost is nil for a blank field; zero is a real cost.
func (f *PurchaseForm) Cost() *float64 {
	if f.CostPerUnit == "" {
		return nil
	}
	d, err := decimal.NewFromString(f.CostPerUnit)
	if err != nil {
		return nil
	}
	c := d.InexactFloat64()
	return &c
}

func (f *PurchaseForm) Input() service.PurchaseInput {
	status := f.Status
	if status == "" {
		status = domain.StatusActive
	}
	return service.PurchaseInput{
		ItemID:        f.ItemID,
		PurchaseDate:  f.PurchaseDate,
		Quantity:      atoi(f.Quantity),
		BatchNo:       f.BatchNo,
		ExpiryDate:    f.ExpiryDate,
		Supplier:      f.Supplier,
		InvoiceNumber: f.InvoiceNumber,
		CostPerUnit:   f.Cost(),
		Status:        status,
	}
}

func (f *PurchaseForm) Submit(ctx context.Context, api service.API) error {
	f.Error = ""
	if f.Errors = check(f); len(f.Errors) > 0 {
		return ErrInvalid
	}
	purchases := service.NewPurchases(api)
	var err error
	if f.Editing() {
		err = purchases.Update(ctx, f.ID, f.Input())
	} else {
		err = purchases.Create(ctx, f.Input())
	}
	if err != nil {
		f.Error = apiclient.Describe(err, "Failed to save purchase")
	}
	return err
}
