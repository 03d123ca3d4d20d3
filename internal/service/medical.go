package service

import (
	"context"
	"net/url"

	"medadmin/m/domain"
)

type ItemQuery struct {
	Search         string
	IncludeDeleted bool
}

func (q ItemQuery) values() url.Values {
	params := url.Values{}
	set(params, "search", q.Search)
	includeDeleted(params, q.IncludeDeleted)
	return params
}

type ItemInput struct {
	Name         string        `json:"name"`
	Unit         string        `json:"unit"`
	ReorderLevel int           `json:"reorderLevel"`
	Comments     string        `json:"comments"`
	Status       domain.Status `json:"status,omitempty"`
}

type Items struct{ api API }

func NewItems(api API) Items { return Items{api: api} }

func (s Items) List(ctx context.Context, q ItemQuery) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := s.api.Get(ctx, "/medical/items", q.values(), &out)
	return out, err
}

func (s Items) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	var out domain.InventoryItem
	err := s.api.Get(ctx, "/medical/items/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s Items) Create(ctx context.Context, in ItemInput) error {
	return s.api.Post(ctx, "/medical/items", in, nil)
}

func (s Items) Update(ctx context.Context, id string, in ItemInput) error {
	return s.api.Put(ctx, "/medical/items/"+url.PathEscape(id), in, nil)
}

func (s Items) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/medical/items/"+url.PathEscape(id))
}

// Lookups fetches units and entity types for the medical forms.
func Lookups(ctx context.Context, api API) (domain.Lookups, error) {
	var out domain.Lookups
	err := api.Get(ctx, "/medical/units", nil, &out)
	return out, err
}

// PurchaseQuery dates are YYYY-MM-DD and inclusive on both ends.
type PurchaseQuery struct {
	ItemID         string
	StartDate      string
	EndDate        string
	IncludeDeleted bool
}

func (q PurchaseQuery) values() url.Values {
	params := url.Values{}
	set(params, "itemId", q.ItemID)
	set(params, "startDate", q.StartDate)
	set(params, "endDate", q.EndDate)
	includeDeleted(params, q.IncludeDeleted)
	return params
}

type PurchaseInput struct {
	ItemID        string        `json:"itemId"`
	PurchaseDate  string        `json:"purchaseDate"`
	Quantity      int           `json:"quantity"`
	BatchNo       string        `json:"batchNo"`
	ExpiryDate    string        `json:"expiryDate"`
	Supplier      string        `json:"supplier"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CostPerUnit   *float64      `json:"costPerUnit"`
	Status        domain.Status `json:"status"`
}

type Purchases struct{ api API }

func NewPurchases(api API) Purchases { return Purchases{api: api} }

func (s Purchases) List(ctx context.Context, q PurchaseQuery) ([]domain.PurchaseRecord, error) {
	var out []domain.PurchaseRecord
	err := s.api.Get(ctx, "/medical/purchases", q.values(), &out)
	return out, err
}

func (s Purchases) Get(ctx context.Context, id string) (domain.PurchaseRecord, error) {
	var out domain.PurchaseRecord
	err := s.api.Get(ctx, "/medical/purchases/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s Purchases) Create(ctx context.Context, in PurchaseInput) error {
	return s.api.Post(ctx, "/medical/purchases", in, nil)
}

func (s Purchases) Update(ctx context.Context, id string, in PurchaseInput) error {
	return s.api.Put(ctx, "/medical/purchases/"+url.PathEscape(id), in, nil)
}

func (s Purchases) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/medical/purchases/"+url.PathEscape(id))
}

type IssueQuery struct {
	ItemID         string
	EntityType     domain.EntityType
	EntityID       string
	StartDate      string
	EndDate        string
	IncludeDeleted bool
}

func (q IssueQuery) values() url.Values {
	params := url.Values{}
	set(params, "itemId", q.ItemID)
	set(params, "entityType", string(q.EntityType))
	set(params, "entityId", q.EntityID)
	set(params, "startDate", q.StartDate)
	set(params, "endDate", q.EndDate)
	includeDeleted(params, q.IncludeDeleted)
	return params
}

type IssueInput struct {
	ItemID        string            `json:"itemId"`
	IssueDate     string            `json:"issueDate"`
	EntityType    domain.EntityType `json:"entityType"`
	EntityID      string            `json:"entityId"`
	Quantity      int               `json:"quantity"`
	Remarks       string            `json:"remarks"`
	ParentConsent bool              `json:"parentConsent"`
	Status        domain.Status     `json:"status"`
}

type Issues struct{ api API }

func NewIssues(api API) Issues { return Issues{api: api} }

func (s Issues) List(ctx context.Context, q IssueQuery) ([]domain.IssueRecord, error) {
	var out []domain.IssueRecord
	err := s.api.Get(ctx, "/medical/issues", q.values(), &out)
	return out, err
}

func (s Issues) Get(ctx context.Context, id string) (domain.IssueRecord, error) {
	var out domain.IssueRecord
	err := s.api.Get(ctx, "/medical/issues/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s Issues) Create(ctx context.Context, in IssueInput) error {
	return s.api.Post(ctx, "/medical/issues", in, nil)
}

func (s Issues) Update(ctx context.Context, id string, in IssueInput) error {
	return s.api.Put(ctx, "/medical/issues/"+url.PathEscape(id), in, nil)
}

func (s Issues) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/medical/issues/"+url.PathEscape(id))
}
