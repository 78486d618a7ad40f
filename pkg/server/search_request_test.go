package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/types"
)

func TestCriteriaFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?min=10&max=100&sort=price-low&page=2&size=24&cat=1&cat=3", nil)
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if criteria.MinPrice != 10 || criteria.MaxPrice != 100 {
		t.Errorf("Price range lost: %d-%d", criteria.MinPrice, criteria.MaxPrice)
	}
	if criteria.Sort != catalog.SortPriceLow {
		t.Errorf("Expected price-low sort, got %s", criteria.Sort)
	}
	if criteria.Page != 2 || criteria.PageSize != 24 {
		t.Errorf("Pagination lost: page %d size %d", criteria.Page, criteria.PageSize)
	}
	if len(criteria.Categories) != 2 || criteria.Categories[0] != 1 || criteria.Categories[1] != 3 {
		t.Errorf("Categories lost: %v", criteria.Categories)
	}
}

func TestCriteriaDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if criteria.Page != 1 {
		t.Errorf("Expected page 1, got %d", criteria.Page)
	}
	if criteria.PageSize != catalog.DefaultPageSize {
		t.Errorf("Expected default page size, got %d", criteria.PageSize)
	}
	if criteria.Sort != catalog.SortLatest {
		t.Errorf("Expected latest sort, got %s", criteria.Sort)
	}
}

func TestCriteriaClampsPageSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?size=5000&page=99999999", nil)
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if criteria.PageSize > 96 {
		t.Errorf("Page size not clamped: %d", criteria.PageSize)
	}
	if criteria.Page > 10000 {
		t.Errorf("Page not clamped: %d", criteria.Page)
	}
}

func TestCriteriaIgnoresUnknownKeys(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?min=10&utm_source=newsletter", nil)
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unknown query keys should be ignored: %v", err)
	}
	if criteria.MinPrice != 10 {
		t.Errorf("Known key lost: %d", criteria.MinPrice)
	}
}

func TestCriteriaIgnoresBadCategoryValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?cat=2&cat=oops", nil)
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(criteria.Categories) != 1 || criteria.Categories[0] != 2 {
		t.Errorf("Expected the one valid category, got %v", criteria.Categories)
	}
}

func TestCriteriaFromJsonBody(t *testing.T) {
	body := `{"minPrice":10,"maxPrice":200,"categories":[1,2],"sort":"best-selling","page":3,"pageSize":24}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	criteria, err := CriteriaFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if criteria.MinPrice != 10 || criteria.MaxPrice != 200 {
		t.Errorf("Price range lost: %d-%d", criteria.MinPrice, criteria.MaxPrice)
	}
	if criteria.Sort != catalog.SortBestSelling {
		t.Errorf("Expected best-selling sort, got %s", criteria.Sort)
	}
	if len(criteria.Categories) != 2 || criteria.Categories[1] != types.CategoryId(2) {
		t.Errorf("Categories lost: %v", criteria.Categories)
	}
	if criteria.Page != 3 {
		t.Errorf("Page lost: %d", criteria.Page)
	}
}
