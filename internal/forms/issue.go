package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medadmin/m/domain"
	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/service"
)

// DefaultEntityTypes is used when lookups do not list any.
var DefaultEntityTypes = []domain.EntityType{domain.EntityEmployee, domain.EntityStudent}

// IssueForm is the add/edit form for an issue record. Recipient is never
// nil; it starts as an empty student.
type IssueForm struct {
	ID        string           `form:"-"`
	ItemID    string           `form:"itemId" label:"Item" validate:"required"`
	IssueDate string           `form:"issueDate" label:"Issue Date" validate:"required,datetime=2006-01-02"`
	Recipient domain.Recipient `form:"-"`
	Quantity  string           `form:"quantity" label:"Quantity" validate:"required,positive"`
	Remarks   string           `form:"remarks" label:"Remarks"`
	Status    domain.Status    `form:"status" label:"Status" validate:"omitempty,oneof=active deleted"`

	Items       []domain.InventoryItem `form:"-"`
	EntityTypes []domain.EntityType    `form:"-"`
	Errors      map[string]string      `form:"-"`
	Error       string                 `form:"-"`
}

func LoadIssueForm(ctx context.Context, api service.API, log *slog.Logger, id string, today time.Time) (*IssueForm, error) {
	if log == nil {
		log = slog.Default()
	}
	f := &IssueForm{
		ID:          id,
		IssueDate:   today.Format(dateLayout),
		Recipient:   domain.StudentRecipient{},
		Status:      domain.StatusActive,
		EntityTypes: DefaultEntityTypes,
	}
	var refErr, recErr error
	var rec domain.IssueRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var (
			items   []domain.InventoryItem
			lookups domain.Lookups
		)
		inner, ictx := errgroup.WithContext(gctx)
		inner.Go(func() (err error) {
			items, err = service.NewItems(api).List(ictx, service.ItemQuery{})
			return err
		})
		inner.Go(func() (err error) {
			lookups, err = service.Lookups(ictx, api)
			return err
		})
		if err := inner.Wait(); err != nil {
			log.Error("failed to load data", "err", err)
			refErr = err
			return nil
		}
		f.Items = items
		if len(lookups.EntityTypes) > 0 {
			f.EntityTypes = lookups.EntityTypes
		}
		return nil
	})
	if id != "" {
		g.Go(func() error {
			rec, recErr = service.NewIssues(api).Get(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	if id != "" {
		if recErr != nil {
			f.Error = "Failed to load issue"
		} else {
			f.ItemID = rec.ItemID
			f.IssueDate = domain.DateOnly(rec.IssueDate)
			f.Recipient = rec.Recipient()
			if rec.Quantity != 0 {
				f.Quantity = strconv.Itoa(rec.Quantity)
			}
			f.Remarks = rec.Remarks
			if rec.Status != "" {
				f.Status = rec.Status
			}
		}
	}
	return f, errors.Join(refErr, recErr)
}

func (f *IssueForm) Editing() bool { return f.ID != "" }

func (f *IssueForm) Title() string {
	if f.Editing() {
		return "Edit Issue"
	}
	return "Issue Medical Item"
}

func (f *IssueForm) SubmitLabel() string {
	if f.Editing() {
		return "Save Changes"
	}
	return "Issue Item"
}

// SelectedItem is the chosen item from the reference list.
func (f *IssueForm) SelectedItem() (domain.InventoryItem, bool) {
	return domain.FindItem(f.Items, f.ItemID)
}

// ItemLabel is the option text for an item, showing its current stock.
func ItemLabel(item domain.InventoryItem) string {
	return fmt.Sprintf("%s (Stock: %d)", item.Name, item.CurrentStock)
}

// SetEntityType replaces the recipient with an empty one of type t. The
// same type keeps the current recipient.
func (f *IssueForm) SetEntityType(t domain.EntityType) {
	if f.Recipient != nil && f.Recipient.Kind() == t {
		return
	}
	f.Recipient = domain.RecipientFor(t)
}

func (f *IssueForm) SetStudent(s domain.Student) {
	consent := domain.ParentConsentOf(f.Recipient)
	f.Recipient = domain.StudentRecipient{Student: &s, ParentConsent: consent}
}

func (f *IssueForm) SetEmployee(e domain.Employee) {
	f.Recipient = domain.EmployeeRecipient{Employee: &e}
}

// SetParentConsent only has an effect on student recipients.
func (f *IssueForm) SetParentConsent(on bool) {
	if s, ok := f.Recipient.(domain.StudentRecipient); ok {
		s.ParentConsent = on
		f.Recipient = s
	}
}

func (f *IssueForm) ParentConsent() bool { return domain.ParentConsentOf(f.Recipient) }

// ShowsConsent reports whether the consent checkbox is rendered.
func (f *IssueForm) ShowsConsent() bool {
	return f.Recipient == nil || f.Recipient.Kind() == domain.EntityStudent
}

// Bind copies posted values, including a recipient carried back from the
// search dialog.
func (f *IssueForm) Bind(v url.Values) {
	if id := v.Get("itemId"); id != "" || !f.Editing() {
		f.ItemID = id
	}
	f.IssueDate = strings.TrimSpace(v.Get("issueDate"))
	f.Quantity = strings.TrimSpace(v.Get("quantity"))
	f.Remarks = v.Get("remarks")
	if f.Editing() {
		if s := v.Get("status"); s != "" {
			f.Status = domain.Status(s)
		}
	}
	consent := v.Get("parentConsent") == "on" || v.Get("parentConsent") == "true"
	f.Recipient = ParseRecipient(v, consent)
	// A changed type select drops the recipient picked under the old type.
	if prev, ok := v["prev_entity_type"]; ok && prev[0] != v.Get(keyEntityType) {
		f.Recipient = domain.RecipientFor(f.Recipient.Kind())
	}
}

// Values encodes the current draft so it survives a trip through the
// search dialog.
func (f *IssueForm) Values() url.Values {
	v := RecipientValues(f.Recipient)
	v.Set("draft", "1")
	setNonEmpty(v, "itemId", f.ItemID)
	setNonEmpty(v, "issueDate", f.IssueDate)
	setNonEmpty(v, "quantity", f.Quantity)
	setNonEmpty(v, "remarks", f.Remarks)
	setNonEmpty(v, "status", string(f.Status))
	if f.ParentConsent() {
		v.Set("parentConsent", "on")
	}
	return v
}

func (f *IssueForm) Input() service.IssueInput {
	status := f.Status
	if status == "" {
		status = domain.StatusActive
	}
	return service.IssueInput{
		ItemID:        f.ItemID,
		IssueDate:     f.IssueDate,
		EntityType:    f.Recipient.Kind(),
		EntityID:      f.Recipient.EntityID(),
		Quantity:      atoi(f.Quantity),
		Remarks:       f.Remarks,
		ParentConsent: domain.ParentConsentOf(f.Recipient),
		Status:        status,
	}
}

// Validate runs field rules plus the recipient and, for new issues, the
// available-stock ceiling.
func (f *IssueForm) Validate() bool {
	errs := check(f)
	if errs == nil {
		errs = map[string]string{}
	}
	if f.Recipient == nil || !f.Recipient.Resolved() {
		kind := domain.EntityStudent
		if f.Recipient != nil {
			kind = f.Recipient.Kind()
		}
		if kind == domain.EntityEmployee {
			errs["entityId"] = "Please select an employee"
		} else {
			errs["entityId"] = "Please select a student"
		}
	}
	if _, bad := errs["quantity"]; !bad && !f.Editing() {
		if item, ok := f.SelectedItem(); ok && atoi(f.Quantity) > item.CurrentStock {
			errs["quantity"] = fmt.Sprintf("Quantity cannot exceed available stock (%d)", item.CurrentStock)
		}
	}
	f.Errors = errs
	return len(errs) == 0
}

func (f *IssueForm) Submit(ctx context.Context, api service.API) error {
	f.Error = ""
	if !f.Validate() {
		return ErrInvalid
	}
	issues := service.NewIssues(api)
	var err error
	if f.Editing() {
		err = issues.Update(ctx, f.ID, f.Input())
	} else {
		err = issues.Create(ctx, f.Input())
	}
	if err != nil {
		f.Error = apiclient.Describe(err, "Failed to save issue")
	}
	return err
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
