package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidCatalogRow = errors.New("invalid catalog row")

type Item struct {
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DefaultQuantity int             `json:"default_quantity"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	DietaryTags     []string        `json:"dietary_tags"`
}

// MaxQuantity is the upper bound of the servings slider for the item.
func (i Item) MaxQuantity() int {
	return i.DefaultQuantity * 2
}

// HasAllTags reports whether the item carries every tag in tags.
func (i Item) HasAllTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range i.DietaryTags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Catalog is the read-only item set of a session. Items keep their load order
// and categories keep first-seen order.
type Catalog struct {
	items       []Item
	byName      map[string]int
	categories  []string
	dietaryTags []string
}

func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}

	seenCategory := make(map[string]struct{})
	seenTag := make(map[string]struct{})

	for i, item := range items {
		if item.Name == "" {
			return nil, fmt.Errorf("%w: row %d: missing name", ErrInvalidCatalogRow, i)
		}
		if _, ok := c.byName[item.Name]; ok {
			return nil, fmt.Errorf("%w: row %d: duplicate item %q", ErrInvalidCatalogRow, i, item.Name)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: row %d: negative price for %q", ErrInvalidCatalogRow, i, item.Name)
		}
		if item.DefaultQuantity < 0 {
			return nil, fmt.Errorf("%w: row %d: negative servings for %q", ErrInvalidCatalogRow, i, item.Name)
		}

		tags := make([]string, len(item.DietaryTags))
		copy(tags, item.DietaryTags)
		item.DietaryTags = tags

		c.byName[item.Name] = len(c.items)
		c.items = append(c.items, item)

		if item.Category != "" {
			if _, ok := seenCategory[item.Category]; !ok {
				seenCategory[item.Category] = struct{}{}
				c.categories = append(c.categories, item.Category)
			}
		}

		for _, tag := range item.DietaryTags {
			if tag == "" {
				continue
			}
			if _, ok := seenTag[tag]; !ok {
				seenTag[tag] = struct{}{}
				c.dietaryTags = append(c.dietaryTags, tag)
			}
		}
	}

	return c, nil
}

func (c *Catalog) Lookup(name string) (Item, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Position returns the load order index of the named item, or -1.
func (c *Catalog) Position(name string) int {
	idx, ok := c.byName[name]
	if !ok {
		return -1
	}
	return idx
}

func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Categories returns the distinct item categories in first-seen order. Items
// without a category are not part of any screen.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) DietaryTags() []string {
	out := make([]string, len(c.dietaryTags))
	copy(out, c.dietaryTags)
	return out
}

// InCategory returns the category's items that pass the predicate, in load order.
// A nil predicate keeps every item.
func (c *Catalog) InCategory(category string, keep Predicate) []Item {
	var out []Item
	for _, item := range c.items {
		if item.Category != category {
			continue
		}
		if keep != nil && !keep(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
