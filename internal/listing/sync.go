// Package listing holds the state behind the purchase, issue and item
// list pages: filter controls, the carried-item sync and the visible rows.
package listing

import "medadmin/m/domain"

// ItemSync pre-selects the item carried in the page URL exactly once per
// navigation. After the first resolution against a non-empty reference
// list it is consumed, whatever the outcome.
type ItemSync struct {
	itemID   string
	consumed bool
}

func NewItemSync(itemID string) ItemSync {
	return ItemSync{itemID: itemID}
}

// Pending reports whether a carried id is still waiting for the
// reference list.
func (s *ItemSync) Pending() bool { return s.itemID != "" && !s.consumed }

// Resolve matches the carried id against items. An empty list leaves the
// sync pending so a later load can still apply it.
func (s *ItemSync) Resolve(items []domain.InventoryItem) (domain.InventoryItem, bool) {
	if !s.Pending() || len(items) == 0 {
		return domain.InventoryItem{}, false
	}
	s.consumed = true
	return domain.FindItem(items, s.itemID)
}

// Consume drops any pending id without resolving it.
func (s *ItemSync) Consume() { s.consumed = true }
