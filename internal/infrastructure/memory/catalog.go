package memory

import (
	"strings"

	"auction-ledger/internal/domain"
)

// Catalog is an insertion-ordered, slice-backed item store.
// It is not safe for concurrent use.
type Catalog struct {
	items []*domain.Item
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddItem appends an item without validating name or price. Duplicate names
// are accepted; FindByName returns the earliest one.
func (c *Catalog) AddItem(name string, startingPrice float64) *domain.Item {
	item := &domain.Item{
		Name:          name,
		StartingPrice: startingPrice,
	}
	c.items = append(c.items, item)
	return item
}

func (c *Catalog) FindByName(name string) (*domain.Item, bool) {
	for _, item := range c.items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return nil, false
}

func (c *Catalog) ListAll() []*domain.Item {
	items := make([]*domain.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Catalog) Len() int {
	return len(c.items)
}
