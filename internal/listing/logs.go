package listing

import (
	"context"
	"errors"
	"log/slog"

	"medadmin/m/domain"
	"medadmin/m/internal/service"
)

// Row is one visible grid row.
type Row[R any] struct {
	Record    R
	Deleted   bool
	CanDelete bool
}

// logView is the state shared by the purchase and issue lists.
type logView[R any] struct {
	items  service.Items
	log    *slog.Logger
	noun   string
	status func(R) domain.Status

	Items   []domain.InventoryItem
	Records []R
	Error   string
	sync    ItemSync
}

// loadItems refreshes the reference list. Failures are logged and keep
// whatever list was loaded before.
func (v *logView[R]) loadItems(ctx context.Context) error {
	items, err := v.items.List(ctx, service.ItemQuery{})
	if err != nil {
		v.log.Error("failed to load items", "err", err)
		return err
	}
	v.Items = items
	return nil
}

func (v *logView[R]) store(records []R, err error) error {
	if err != nil {
		v.Error = "Failed to load " + v.noun + "s"
		return err
	}
	v.Error = ""
	v.Records = records
	return nil
}

func (v *logView[R]) rows(includeDeleted bool) []Row[R] {
	out := make([]Row[R], 0, len(v.Records))
	for _, r := range v.Records {
		del := v.status(r).Deleted()
		if del && !includeDeleted {
			continue
		}
		out = append(out, Row[R]{Record: r, Deleted: del, CanDelete: !del})
	}
	return out
}

// ItemName resolves an item id against the reference list.
func (v *logView[R]) ItemName(id string) string {
	if item, ok := domain.FindItem(v.Items, id); ok {
		return item.Name
	}
	return ""
}

// PurchaseList backs the purchase log page.
type PurchaseList struct {
	logView[domain.PurchaseRecord]
	purchases service.Purchases
	Filter    PurchaseFilter
}

func NewPurchaseList(api service.API, log *slog.Logger) *PurchaseList {
	if log == nil {
		log = slog.Default()
	}
	return &PurchaseList{
		logView: logView[domain.PurchaseRecord]{
			items:  service.NewItems(api),
			log:    log,
			noun:   "purchase",
			status: func(r domain.PurchaseRecord) domain.Status { return r.Status },
		},
		purchases: service.NewPurchases(api),
	}
}

// Mount loads the item reference list and performs the first fetch. With a
// carried item id found in the list the fetch is filtered by it; otherwise
// it is unfiltered.
func (l *PurchaseList) Mount(ctx context.Context, carriedItemID string) error {
	l.sync = NewItemSync(carriedItemID)
	itemsErr := l.loadItems(ctx)
	l.applySync()
	return errors.Join(itemsErr, l.Search(ctx))
}

// RefreshItems reloads the reference list. A sync that could not resolve
// at mount applies now; a consumed one never fires again.
func (l *PurchaseList) RefreshItems(ctx context.Context) error {
	if err := l.loadItems(ctx); err != nil {
		return err
	}
	if l.applySync() {
		return l.Search(ctx)
	}
	return nil
}

func (l *PurchaseList) applySync() bool {
	item, ok := l.sync.Resolve(l.Items)
	if ok {
		l.Filter = PurchaseFilter{ItemID: item.UUID}
	}
	return ok
}

// Search fetches with every control as currently set.
func (l *PurchaseList) Search(ctx context.Context) error {
	return l.store(l.purchases.List(ctx, l.Filter.Query()))
}

// Clear resets every control and fetches the unfiltered list.
func (l *PurchaseList) Clear(ctx context.Context) error {
	l.sync.Consume()
	l.Filter = PurchaseFilter{}
	return l.Search(ctx)
}

// Delete soft-deletes a purchase. The caller refetches with the current
// filters, usually by redirecting back to the list.
func (l *PurchaseList) Delete(ctx context.Context, id string) error {
	if err := l.purchases.Delete(ctx, id); err != nil {
		l.Error = "Failed to delete purchase"
		return err
	}
	return nil
}

func (l *PurchaseList) Rows() []Row[domain.PurchaseRecord] {
	return l.rows(l.Filter.IncludeDeleted)
}

// IssueList backs the issue log page.
type IssueList struct {
	logView[domain.IssueRecord]
	issues service.Issues
	Filter IssueFilter
}

func NewIssueList(api service.API, log *slog.Logger) *IssueList {
	if log == nil {
		log = slog.Default()
	}
	return &IssueList{
		logView: logView[domain.IssueRecord]{
			items:  service.NewItems(api),
			log:    log,
			noun:   "issue",
			status: func(r domain.IssueRecord) domain.Status { return r.Status },
		},
		issues: service.NewIssues(api),
		Filter: IssueFilter{Entity: AnyEntity{}},
	}
}

func (l *IssueList) Mount(ctx context.Context, carriedItemID string) error {
	l.sync = NewItemSync(carriedItemID)
	itemsErr := l.loadItems(ctx)
	l.applySync()
	return errors.Join(itemsErr, l.Search(ctx))
}

func (l *IssueList) RefreshItems(ctx context.Context) error {
	if err := l.loadItems(ctx); err != nil {
		return err
	}
	if l.applySync() {
		return l.Search(ctx)
	}
	return nil
}

func (l *IssueList) applySync() bool {
	item, ok := l.sync.Resolve(l.Items)
	if ok {
		l.Filter = IssueFilter{ItemID: item.UUID, Entity: AnyEntity{}}
	}
	return ok
}

func (l *IssueList) Search(ctx context.Context) error {
	return l.store(l.issues.List(ctx, l.Filter.Query()))
}

// SetEntityType switches the "issued to" variant, dropping any selection
// or typed id when the type changes.
func (l *IssueList) SetEntityType(t domain.EntityType) {
	l.Filter.Entity = SwitchEntityType(l.Filter.Entity, t)
}

func (l *IssueList) Clear(ctx context.Context) error {
	l.sync.Consume()
	l.Filter = IssueFilter{Entity: AnyEntity{}}
	return l.Search(ctx)
}

func (l *IssueList) Delete(ctx context.Context, id string) error {
	if err := l.issues.Delete(ctx, id); err != nil {
		l.Error = "Failed to delete issue"
		return err
	}
	return nil
}

func (l *IssueList) Rows() []Row[domain.IssueRecord] {
	return l.rows(l.Filter.IncludeDeleted)
}
