// Package menu serves the read-only catalog and its search filter.
package menu

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/foodcloud/internal/models"
)

// AllCategories matches every item in Filter.
const AllCategories = "All"

// Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	items      []models.MenuItem
	byID       map[int]int
	categories []string
}

func NewCatalog(items []models.MenuItem) (*Catalog, error) {
	c := &Catalog{
		items:      make([]models.MenuItem, 0, len(items)),
		byID:       make(map[int]int, len(items)),
		categories: []string{AllCategories},
	}
	seen := make(map[string]bool)
	for _, item := range items {
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %d", item.ID)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("menu item %d has negative price %s", item.ID, item.Price)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
		if !seen[item.Category] {
			seen[item.Category] = true
			c.categories = append(c.categories, item.Category)
		}
	}
	return c, nil
}

func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) Get(id int) (models.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i], true
}

// Categories is "All" followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Filter keeps items whose name or category contains search, ignoring
// case, and whose category equals category unless it is "All" or empty.
func (c *Catalog) Filter(search, category string) []models.MenuItem {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if category != "" && category != AllCategories && item.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Category), term) {
			continue
		}
		out = append(out, item)
	}
	return out
}
