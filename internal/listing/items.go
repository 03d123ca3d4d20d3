package listing

import (
	"context"
	"log/slog"
	"net/url"

	"medadmin/m/domain"
	"medadmin/m/internal/service"
)

// ItemRow adds the derived bits the item table shows.
type ItemRow struct {
	Item         domain.InventoryItem
	LowStock     bool
	Deleted      bool
	CanDelete    bool
	PurchasesURL string
	IssuesURL    string
}

// ItemList backs the inventory items page.
type ItemList struct {
	items service.Items
	log   *slog.Logger

	Search         string
	IncludeDeleted bool
	Items          []domain.InventoryItem
	Error          string
}

func NewItemList(api service.API, log *slog.Logger) *ItemList {
	if log == nil {
		log = slog.Default()
	}
	return &ItemList{items: service.NewItems(api), log: log}
}

func (l *ItemList) Load(ctx context.Context) error {
	items, err := l.items.List(ctx, service.ItemQuery{Search: l.Search, IncludeDeleted: l.IncludeDeleted})
	if err != nil {
		l.Error = "Failed to load items"
		return err
	}
	l.Error = ""
	l.Items = items
	return nil
}

// Clear drops the search text and include-deleted flag and reloads.
func (l *ItemList) Clear(ctx context.Context) error {
	l.Search = ""
	l.IncludeDeleted = false
	return l.Load(ctx)
}

func (l *ItemList) Delete(ctx context.Context, id string) error {
	if err := l.items.Delete(ctx, id); err != nil {
		l.Error = "Failed to delete item"
		return err
	}
	return nil
}

func (l *ItemList) Rows() []ItemRow {
	out := make([]ItemRow, 0, len(l.Items))
	for _, item := range l.Items {
		del := item.Status.Deleted()
		if del && !l.IncludeDeleted {
			continue
		}
		out = append(out, ItemRow{
			Item:         item,
			LowStock:     item.LowStock(),
			Deleted:      del,
			CanDelete:    !del,
			PurchasesURL: CarryItem("/medical/purchases", item.UUID),
			IssuesURL:    CarryItem("/medical/issues", item.UUID),
		})
	}
	return out
}

// CarryItem builds a cross-navigation link carrying the item id.
func CarryItem(path, itemID string) string {
	return path + "?" + url.Values{"item": {itemID}}.Encode()
}
