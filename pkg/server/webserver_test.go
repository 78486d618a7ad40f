package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matst80/slask-store/pkg/auth"
	"github.com/matst80/slask-store/pkg/cart"
	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/checkout"
	"github.com/matst80/slask-store/pkg/types"
)

func testWebServer(t *testing.T) *WebServer {
	t.Helper()
	idx := catalog.NewIndex()
	idx.Upsert(
		&types.Product{Id: 1, Name: types.LocalizedText{En: "Headphones", Ar: "سماعات"}, Price: 100, OfferPrice: 80, CategoryId: 1, IsBestSeller: true,
			Attributes: []types.Attribute{
				{Label: types.LocalizedText{En: "Color", Ar: "اللون"}, Value: types.LocalizedText{En: "Black", Ar: "أسود"}},
			}},
		&types.Product{Id: 2, Name: types.LocalizedText{En: "Watch", Ar: "ساعة"}, Price: 50, CategoryId: 1},
		&types.Product{Id: 3, Name: types.LocalizedText{En: "T-Shirt"}, Price: 30, CategoryId: 2},
	)
	idx.SetCategories(
		&types.Category{Id: 1, Name: types.LocalizedText{En: "Electronics", Ar: "إلكترونيات"}},
		&types.Category{Id: 2, Name: types.LocalizedText{En: "Fashion"}},
	)

	cartStorage := cart.NewDiskStorage(t.TempDir())
	authServer := auth.NewServer(auth.NewUserStore(t.TempDir()), []byte("test-secret"), nil)

	return &WebServer{
		Catalog: idx,
		Cart: &cart.Server{
			Storage:   cartStorage,
			IdHandler: cartStorage,
			Catalog:   idx,
		},
		Checkout: &checkout.Server{
			Orders:      checkout.NewDiskOrderStorage(t.TempDir()),
			Carts:       cartStorage,
			Auth:        authServer,
			ShippingFee: 15,
		},
		Auth: authServer,
	}
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Could not marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) *productPageResponse {
	t.Helper()
	var page productPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("Could not decode page: %v", err)
	}
	return &page
}

func TestGetProducts(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/products", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	page := decodePage(t, rec)
	if page.TotalHits != 3 {
		t.Errorf("Expected 3 hits, got %d", page.TotalHits)
	}
	if page.RTL {
		t.Error("English page flagged RTL")
	}
	// latest sort puts the highest id first
	if page.Items[0].Id != 3 {
		t.Errorf("Expected product 3 first, got %d", page.Items[0].Id)
	}
}

func TestGetProductsLocalized(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/products?locale=ar&sort=oldest", nil, nil)
	page := decodePage(t, rec)
	if !page.RTL {
		t.Error("Arabic page not flagged RTL")
	}
	if page.Items[0].Title != "سماعات" {
		t.Errorf("Expected arabic title, got %q", page.Items[0].Title)
	}
	// product 3 has no arabic name, english fallback
	if page.Items[2].Title != "T-Shirt" {
		t.Errorf("Expected english fallback, got %q", page.Items[2].Title)
	}
}

func TestGetProductsFiltered(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/products?cat=2", nil, nil)
	page := decodePage(t, rec)
	if page.TotalHits != 1 || page.Items[0].Id != 3 {
		t.Errorf("Category filter broken: %+v", page)
	}

	rec = doRequest(t, mux, http.MethodGet, "/products?max=60", nil, nil)
	page = decodePage(t, rec)
	if page.TotalHits != 2 {
		t.Errorf("Expected 2 products at or under 60, got %d", page.TotalHits)
	}
}

func TestGetProductById(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/products/1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var p localizedProduct
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("Could not decode product: %v", err)
	}
	if p.Title != "Headphones" || p.OfferPrice != 80 {
		t.Errorf("Unexpected product: %+v", p)
	}

	rec = doRequest(t, mux, http.MethodGet, "/products/99", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestGetProductAttributes(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/products/1/attributes?locale=ar", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var attributes []localizedAttribute
	if err := json.NewDecoder(rec.Body).Decode(&attributes); err != nil {
		t.Fatalf("Could not decode attributes: %v", err)
	}
	if len(attributes) != 1 || attributes[0].Label != "اللون" || attributes[0].Value != "أسود" {
		t.Errorf("Unexpected attributes: %+v", attributes)
	}
}

func TestGetCategories(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/categories", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var categories []localizedCategory
	if err := json.NewDecoder(rec.Body).Decode(&categories); err != nil {
		t.Fatalf("Could not decode categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Electronics" || categories[0].Count != 2 {
		t.Errorf("Unexpected first category: %+v", categories[0])
	}
}

func TestGetOffers(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodGet, "/offers", nil, nil)
	page := decodePage(t, rec)
	if page.TotalHits != 1 || page.Items[0].Id != 1 {
		t.Errorf("Expected only the discounted product, got %+v", page)
	}
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodPost, "/checkout/order", map[string]string{"payment_method": "cod"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without sign in, got %d", rec.Code)
	}
}

// full storefront flow: sign up, fill the cart, place the order, read the
// history and verify the cart was emptied.
func TestPlaceOrderFlow(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodPost, "/auth/signup", map[string]string{
		"email":     "shopper@example.com",
		"password":  "password123",
		"full_name": "Shopper",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Sign up failed with %d", rec.Code)
	}
	cookies := rec.Result().Cookies()

	rec = doRequest(t, mux, http.MethodPost, "/cart/", cart.AddItemRequest{ItemId: 1, Quantity: 2}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Add to cart failed with %d", rec.Code)
	}
	cookies = append(cookies, rec.Result().Cookies()...)

	rec = doRequest(t, mux, http.MethodPost, "/checkout/order", map[string]string{"payment_method": "cod"}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var order checkout.Order
	if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
		t.Fatalf("Could not decode order: %v", err)
	}
	if order.Subtotal != 160 {
		t.Errorf("Expected subtotal 160, got %d", order.Subtotal)
	}
	if order.TotalPrice != 175 {
		t.Errorf("Expected total 175 with shipping, got %d", order.TotalPrice)
	}

	rec = doRequest(t, mux, http.MethodGet, "/checkout/orders", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Order history failed with %d", rec.Code)
	}
	var orders []checkout.Order
	if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
		t.Fatalf("Could not decode history: %v", err)
	}
	if len(orders) != 1 || orders[0].Id != order.Id {
		t.Errorf("Expected the placed order in the history, got %+v", orders)
	}

	// the cart is cleared after a successful order
	rec = doRequest(t, mux, http.MethodGet, "/cart/", nil, cookies)
	var emptied cart.Cart
	if err := json.NewDecoder(rec.Body).Decode(&emptied); err != nil {
		t.Fatalf("Could not decode cart: %v", err)
	}
	if !emptied.IsEmpty() {
		t.Error("Cart not cleared after order")
	}
}

func TestEmptyCartCannotBeOrdered(t *testing.T) {
	ws := testWebServer(t)
	mux := ws.ClientHandler()

	rec := doRequest(t, mux, http.MethodPost, "/auth/signup", map[string]string{
		"email":    "shopper@example.com",
		"password": "password123",
	}, nil)
	cookies := rec.Result().Cookies()

	// open a cart session without putting anything in it
	rec = doRequest(t, mux, http.MethodGet, "/cart/", nil, cookies)
	cookies = append(cookies, rec.Result().Cookies()...)

	rec = doRequest(t, mux, http.MethodPost, "/checkout/order", map[string]string{"payment_method": "cod"}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty cart, got %d", rec.Code)
	}
}
