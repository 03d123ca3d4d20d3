package domain

import "strings"

// Status marks whether a record is live or soft-deleted.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Deleted reports whether the record has been soft-deleted.
func (s Status) Deleted() bool { return s == StatusDeleted }

// InventoryItem is a medical item tracked by the school. CurrentStock is
// maintained by the server as purchases and issues are recorded.
type InventoryItem struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	ReorderLevel int    `json:"reorderLevel"`
	CurrentStock int    `json:"currentStock"`
	Status       Status `json:"status"`
	Comments     string `json:"comments"`
}

// LowStock reports whether the item is at or below its reorder level.
func (i InventoryItem) LowStock() bool { return i.CurrentStock <= i.ReorderLevel }

// FindItem looks an item up by id.
func FindItem(items []InventoryItem, id string) (InventoryItem, bool) {
	for _, item := range items {
		if item.UUID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

type Unit struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Lookups holds the reference values served for the medical forms.
type Lookups struct {
	Units       []Unit       `json:"units"`
	EntityTypes []EntityType `json:"entityTypes"`
}

// DateOnly trims a timestamp down to its YYYY-MM-DD part.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
