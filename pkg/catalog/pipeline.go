package catalog

import (
	"cmp"
	"slices"

	"github.com/matst80/slask-store/pkg/types"
)

type SortKey string

const (
	SortLatest      SortKey = "latest"
	SortOldest      SortKey = "oldest"
	SortPriceLow    SortKey = "price-low"
	SortPriceHigh   SortKey = "price-high"
	SortBestSelling SortKey = "best-selling"
)

const DefaultPageSize = 12

// Criteria is the full set of user selected constraints driving the
// pipeline. Zero MaxPrice means no upper bound.
type Criteria struct {
	MinPrice   int                `json:"minPrice" schema:"min"`
	MaxPrice   int                `json:"maxPrice" schema:"max"`
	Categories []types.CategoryId `json:"categories" schema:"-"`
	Sort       SortKey            `json:"sort" schema:"sort"`
	Page       int                `json:"page" schema:"page"`
	PageSize   int                `json:"pageSize" schema:"size"`
}

func (c *Criteria) Normalize() {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
	if c.Sort == "" {
		c.Sort = SortLatest
	}
}

// The With helpers return a copy on page one. Changing any filter dimension
// resets pagination, the page is only kept when it is the one thing that
// changed.
func (c Criteria) WithPriceRange(minPrice, maxPrice int) Criteria {
	c.MinPrice = minPrice
	c.MaxPrice = maxPrice
	c.Page = 1
	return c
}

func (c Criteria) WithCategories(ids ...types.CategoryId) Criteria {
	c.Categories = ids
	c.Page = 1
	return c
}

func (c Criteria) WithSort(key SortKey) Criteria {
	c.Sort = key
	c.Page = 1
	return c
}

func (c Criteria) WithPageSize(size int) Criteria {
	c.PageSize = size
	c.Page = 1
	return c
}

func (c *Criteria) matches(p *types.Product) bool {
	price := p.EffectivePrice()
	if price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && price > c.MaxPrice {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, p.CategoryId) {
		return false
	}
	return true
}

type Result struct {
	Items      []*types.Product `json:"items"`
	TotalHits  int              `json:"totalHits"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

func sortProducts(items []*types.Product, key SortKey) {
	switch key {
	case SortOldest:
		slices.SortStableFunc(items, func(a, b *types.Product) int {
			return cmp.Compare(a.Id, b.Id)
		})
	case SortPriceLow:
		slices.SortStableFunc(items, func(a, b *types.Product) int {
			return cmp.Compare(a.EffectivePrice(), b.EffectivePrice())
		})
	case SortPriceHigh:
		slices.SortStableFunc(items, func(a, b *types.Product) int {
			return cmp.Compare(b.EffectivePrice(), a.EffectivePrice())
		})
	case SortBestSelling:
		// stable partition, best sellers keep their relative order
		slices.SortStableFunc(items, func(a, b *types.Product) int {
			return boolToInt(b.IsBestSeller) - boolToInt(a.IsBestSeller)
		})
	default:
		// latest, id used as recency proxy since ids are assigned
		// monotonically
		slices.SortStableFunc(items, func(a, b *types.Product) int {
			return cmp.Compare(b.Id, a.Id)
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Apply runs the full filter, sort and paginate pipeline. It never mutates
// its input and an empty page is a valid result, not an error.
func Apply(products []*types.Product, criteria Criteria) *Result {
	criteria.Normalize()

	filtered := make([]*types.Product, 0, len(products))
	for _, p := range products {
		if criteria.matches(p) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, criteria.Sort)

	totalHits := len(filtered)
	totalPages := max(1, (totalHits+criteria.PageSize-1)/criteria.PageSize)
	page := min(max(criteria.Page, 1), totalPages)

	start := min((page-1)*criteria.PageSize, totalHits)
	end := min(start+criteria.PageSize, totalHits)

	return &Result{
		Items:      filtered[start:end],
		TotalHits:  totalHits,
		Page:       page,
		PageSize:   criteria.PageSize,
		TotalPages: totalPages,
	}
}
