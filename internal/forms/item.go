package forms

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"medadmin/m/domain"
	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/service"
)

// ItemForm is the add/edit form for an inventory item.
type ItemForm struct {
	ID           string        `form:"-"`
	Name         string        `form:"name" label:"Item Name" validate:"required"`
	Unit         string        `form:"unit" label:"Unit"`
	ReorderLevel string        `form:"reorderLevel" label:"Reorder Level" validate:"omitempty,whole"`
	Comments     string        `form:"comments" label:"Comments"`
	Status       domain.Status `form:"status" label:"Status" validate:"omitempty,oneof=active deleted"`

	Units  []domain.Unit     `form:"-"`
	Errors map[string]string `form:"-"`
	Error  string            `form:"-"`
}

// LoadItemForm prepares the form. Units and, when editing, the item load
// concurrently; a failed unit load only leaves the select empty.
func LoadItemForm(ctx context.Context, api service.API, log *slog.Logger, id string) (*ItemForm, error) {
	if log == nil {
		log = slog.Default()
	}
	f := &ItemForm{ID: id, Status: domain.StatusActive}
	var unitsErr, itemErr error
	var item domain.InventoryItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lookups, err := service.Lookups(gctx, api)
		if err != nil {
			log.Error("failed to load units", "err", err)
			unitsErr = err
			return nil
		}
		f.Units = lookups.Units
		return nil
	})
	if id != "" {
		g.Go(func() error {
			item, itemErr = service.NewItems(api).Get(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	if id != "" {
		if itemErr != nil {
			f.Error = "Failed to load item"
		} else {
			f.Name = item.Name
			f.Unit = item.Unit
			f.ReorderLevel = strconv.Itoa(item.ReorderLevel)
			f.Comments = item.Comments
			if item.Status != "" {
				f.Status = item.Status
			}
		}
	}
	return f, errors.Join(unitsErr, itemErr)
}

func (f *ItemForm) Editing() bool { return f.ID != "" }

func (f *ItemForm) Title() string {
	if f.Editing() {
		return "Edit Item"
	}
	return "Add New Item"
}

func (f *ItemForm) SubmitLabel() string {
	if f.Editing() {
		return "Save Changes"
	}
	return "Create Item"
}

// Bind copies posted values onto the form. Status is only accepted when
// editing.
func (f *ItemForm) Bind(v url.Values) {
	f.Name = strings.TrimSpace(v.Get("name"))
	f.Unit = v.Get("unit")
	f.ReorderLevel = strings.TrimSpace(v.Get("reorderLevel"))
	f.Comments = v.Get("comments")
	if f.Editing() {
		f.Status = domain.Status(v.Get("status"))
	}
}

func (f *ItemForm) Input() service.ItemInput {
	return service.ItemInput{
		Name:         f.Name,
		Unit:         f.Unit,
		ReorderLevel: atoi(f.ReorderLevel),
		Comments:     f.Comments,
		Status:       f.Status,
	}
}

// Submit validates and then creates or updates the item.
func (f *ItemForm) Submit(ctx context.Context, api service.API) error {
	f.Error = ""
	if f.Errors = check(f); len(f.Errors) > 0 {
		return ErrInvalid
	}
	items := service.NewItems(api)
	var err error
	if f.Editing() {
		err = items.Update(ctx, f.ID, f.Input())
	} else {
		err = items.Create(ctx, f.Input())
	}
	if err != nil {
		f.Error = apiclient.Describe(err, "Failed to save item")
	}
	return err
}
