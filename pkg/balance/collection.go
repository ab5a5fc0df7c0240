package balance

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidItemID is returned by [Collection.Add] when the item ID is
	// empty. All items must have non-empty identifiers.
	ErrInvalidItemID = errors.New("item ID must not be empty")

	// ErrDuplicateItemID is returned by [Collection.Add] when an item with
	// the same ID already exists. Item IDs must be unique.
	ErrDuplicateItemID = errors.New("duplicate item ID")
)

// Collection is an ordered set of items with id lookup.
//
// Insertion order is preserved so repeated loads of the same balance sheets
// produce identical iteration order, which downstream consumers rely on for
// deterministic output. Collection is not safe for concurrent mutation.
type Collection struct {
	items []Item
	index map[string]int // id -> position in items
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Add appends an item to the collection.
// Returns ErrInvalidItemID if the item ID is empty, or ErrDuplicateItemID
// if an item with the same ID was added before.
func (c *Collection) Add(it Item) error {
	if it.ID == "" {
		return ErrInvalidItemID
	}
	if _, exists := c.index[it.ID]; exists {
		return ErrDuplicateItemID
	}
	c.index[it.ID] = len(c.items)
	c.items = append(c.items, it)
	return nil
}

// Item returns the item with the given ID and true, or a zero item and
// false if not found.
func (c *Collection) Item(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Contains reports whether an item with the given ID exists.
func (c *Collection) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Items returns all items in insertion order.
// The returned slice is a copy; modifying it does not affect the collection.
func (c *Collection) Items() []Item { return slices.Clone(c.items) }

// Len returns the number of items in the collection.
func (c *Collection) Len() int { return len(c.items) }

// FilterCategories returns the items carrying at least one of the given
// category tags, in insertion order. An empty tag list returns all items.
func (c *Collection) FilterCategories(tags ...string) []Item {
	if len(tags) == 0 {
		return c.Items()
	}
	var out []Item
	for _, it := range c.items {
		for _, tag := range tags {
			if it.HasCategory(tag) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Dependents returns the IDs of items that list id as a prerequisite, in
// insertion order. Returns nil if nothing depends on the item.
func (c *Collection) Dependents(id string) []string {
	var out []string
	for _, it := range c.items {
		if slices.Contains(it.Prerequisites, id) {
			out = append(out, it.ID)
		}
	}
	return out
}
