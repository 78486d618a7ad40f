package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matst80/slask-store/pkg/types"
)

// Index holds the full catalog in memory. All reads the pipeline and the
// web server do go through the RWMutex, writers are the storage loader and
// the admin upsert path.
type Index struct {
	mu         sync.RWMutex
	items      map[types.ItemId]*types.Product
	categories map[types.CategoryId]*types.Category
}

func NewIndex() *Index {
	return &Index{
		items:      make(map[types.ItemId]*types.Product),
		categories: make(map[types.CategoryId]*types.Category),
	}
}

func (idx *Index) Upsert(products ...*types.Product) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, p := range products {
		p.Images = p.Images.WithFallback()
		idx.items[p.Id] = p
	}
}

func (idx *Index) Delete(id types.ItemId) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.items, id)
}

func (idx *Index) Get(id types.ItemId) (*types.Product, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.items[id]
	return p, ok
}

// Products returns a stable snapshot ordered by id. Never nil.
func (idx *Index) Products() []*types.Product {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := make([]*types.Product, 0, len(idx.items))
	for _, p := range idx.items {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b *types.Product) int {
		return int(a.Id) - int(b.Id)
	})
	return result
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.items)
}

func (idx *Index) SetCategories(categories ...*types.Category) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, c := range categories {
		idx.categories[c.Id] = c
	}
}

func (idx *Index) Categories() []*types.Category {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := make([]*types.Category, 0, len(idx.categories))
	for _, c := range idx.categories {
		result = append(result, c)
	}
	slices.SortFunc(result, func(a, b *types.Category) int {
		return int(a.Id) - int(b.Id)
	})
	return result
}

type CategoryCount struct {
	*types.Category
	Count int `json:"count"`
}

// CategoryCounts lists categories with the number of products in each,
// omitting empty ones like the shop sidebar does.
func (idx *Index) CategoryCounts() []CategoryCount {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	counts := make(map[types.CategoryId]int, len(idx.categories))
	for _, p := range idx.items {
		counts[p.CategoryId]++
	}
	result := make([]CategoryCount, 0, len(counts))
	for id, c := range idx.categories {
		if n := counts[id]; n > 0 {
			result = append(result, CategoryCount{Category: c, Count: n})
		}
	}
	slices.SortFunc(result, func(a, b CategoryCount) int {
		return int(a.Id) - int(b.Id)
	})
	return result
}

// LimitedTimeOffers returns products currently sold below list price.
func (idx *Index) LimitedTimeOffers() []*types.Product {
	result := make([]*types.Product, 0)
	for _, p := range idx.Products() {
		if p.HasOffer() {
			result = append(result, p)
		}
	}
	return result
}

func (idx *Index) Attributes(id types.ItemId) ([]types.Attribute, error) {
	p, ok := idx.Get(id)
	if !ok {
		return nil, fmt.Errorf("product %d not found", id)
	}
	if p.Attributes == nil {
		return []types.Attribute{}, nil
	}
	return p.Attributes, nil
}

// PriceExtent reports the lowest and highest effective price in the
// catalog, used to seed the price range filter.
func (idx *Index) PriceExtent() (int, int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	lowest, highest := 0, 0
	first := true
	for _, p := range idx.items {
		price := p.EffectivePrice()
		if first {
			lowest, highest = price, price
			first = false
			continue
		}
		lowest = min(lowest, price)
		highest = max(highest, price)
	}
	return lowest, highest
}
