package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/slask-store/pkg/auth"
	"github.com/matst80/slask-store/pkg/cart"
	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/checkout"
	"github.com/matst80/slask-store/pkg/common"
	"github.com/matst80/slask-store/pkg/types"
)

var (
	noCatalogQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_catalog_queries_total",
		Help: "The total number of processed catalog queries",
	})
	noProductViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_product_views_total",
		Help: "The total number of product detail fetches",
	})
)

const categoriesCacheKey = "categories"

// WebServer is the client facing API: the catalog surface plus the cart,
// checkout and auth submuxes.
type WebServer struct {
	Catalog  *catalog.Index
	Cart     *cart.Server
	Checkout *checkout.Server
	Auth     *auth.Server
	Cache    *Cache
	Tracking types.Tracking
}

// localizedProduct flattens the bilingual fields for one locale, the shape
// the product grid renders directly.
type localizedProduct struct {
	Id           types.ItemId        `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Price        int                 `json:"price"`
	OfferPrice   int                 `json:"offer_price,omitempty"`
	Stock        int                 `json:"stock"`
	CategoryId   types.CategoryId    `json:"category_id"`
	Images       types.ProductImages `json:"imgs"`
	IsBestSeller bool                `json:"is_best_seller,omitempty"`
}

func localize(p *types.Product, locale types.Locale) localizedProduct {
	return localizedProduct{
		Id:           p.Id,
		Title:        p.Name.Resolve(locale),
		Description:  p.Description.Resolve(locale),
		Price:        p.Price,
		OfferPrice:   p.OfferPrice,
		Stock:        p.Stock,
		CategoryId:   p.CategoryId,
		Images:       p.Images,
		IsBestSeller: p.IsBestSeller,
	}
}

func localizeAll(products []*types.Product, locale types.Locale) []localizedProduct {
	result := make([]localizedProduct, len(products))
	for i, p := range products {
		result[i] = localize(p, locale)
	}
	return result
}

type productPageResponse struct {
	Items      []localizedProduct `json:"items"`
	TotalHits  int                `json:"totalHits"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
	RTL        bool               `json:"rtl"`
}

// GetProducts runs the filter/sort/paginate pipeline over the catalog.
func (ws *WebServer) GetProducts(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	criteria, err := CriteriaFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	locale := types.LocaleFromRequest(r)

	result := catalog.Apply(ws.Catalog.Products(), criteria)

	noCatalogQueries.Inc()
	if ws.Tracking != nil {
		go ws.Tracking.TrackCatalogQuery(sessionId, result.TotalHits)
	}

	common.DefaultHeaders(w, r, "120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(productPageResponse{
		Items:      localizeAll(result.Items, locale),
		TotalHits:  result.TotalHits,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		RTL:        locale.IsRTL(),
	})
}

// GetOffers lists the limited time offer products, same pipeline on a
// narrower source list.
func (ws *WebServer) GetOffers(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	criteria, err := CriteriaFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	locale := types.LocaleFromRequest(r)
	result := catalog.Apply(ws.Catalog.LimitedTimeOffers(), criteria)

	noCatalogQueries.Inc()
	common.DefaultHeaders(w, r, "120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(productPageResponse{
		Items:      localizeAll(result.Items, locale),
		TotalHits:  result.TotalHits,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		RTL:        locale.IsRTL(),
	})
}

func (ws *WebServer) GetProduct(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return err
	}
	product, ok := ws.Catalog.Get(types.ItemId(id))
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return nil
	}
	noProductViews.Inc()
	common.PublicHeaders(w, r, "120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(localize(product, types.LocaleFromRequest(r)))
}

type localizedAttribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (ws *WebServer) GetProductAttributes(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return err
	}
	attributes, err := ws.Catalog.Attributes(types.ItemId(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	locale := types.LocaleFromRequest(r)
	result := make([]localizedAttribute, len(attributes))
	for i, a := range attributes {
		result[i] = localizedAttribute{
			Label: a.Label.Resolve(locale),
			Value: a.Value.Resolve(locale),
		}
	}
	common.PublicHeaders(w, r, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(result)
}

type localizedCategory struct {
	Id    types.CategoryId `json:"id"`
	Name  string           `json:"name"`
	Image string           `json:"img,omitempty"`
	Count int              `json:"count"`
}

func (ws *WebServer) GetCategories(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	locale := types.LocaleFromRequest(r)
	cacheKey := categoriesCacheKey + ":" + string(locale)

	result := make([]localizedCategory, 0)
	if ws.Cache != nil {
		if err := ws.Cache.Get(cacheKey, &result); err == nil {
			common.PublicHeaders(w, r, "600")
			w.WriteHeader(http.StatusOK)
			return enc.Encode(result)
		}
	}

	for _, c := range ws.Catalog.CategoryCounts() {
		result = append(result, localizedCategory{
			Id:    c.Id,
			Name:  c.Name.Resolve(locale),
			Image: c.Image,
			Count: c.Count,
		})
	}
	if ws.Cache != nil {
		if err := ws.Cache.Set(cacheKey, result, time.Minute*10); err != nil {
			log.Printf("Could not cache categories: %v", err)
		}
	}
	common.PublicHeaders(w, r, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(result)
}

type priceExtentResponse struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (ws *WebServer) GetPriceExtent(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	lowest, highest := ws.Catalog.PriceExtent()
	common.PublicHeaders(w, r, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(priceExtentResponse{Min: lowest, Max: highest})
}

// ClientHandler composes the whole /api surface.
func (ws *WebServer) ClientHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", common.JsonHandler(ws.Tracking, ws.GetProducts))
	mux.HandleFunc("POST /products", common.JsonHandler(ws.Tracking, ws.GetProducts))
	mux.HandleFunc("GET /products/{id}", common.JsonHandler(ws.Tracking, ws.GetProduct))
	mux.HandleFunc("GET /products/{id}/attributes", common.JsonHandler(ws.Tracking, ws.GetProductAttributes))
	mux.HandleFunc("GET /offers", common.JsonHandler(ws.Tracking, ws.GetOffers))
	mux.HandleFunc("GET /categories", common.JsonHandler(ws.Tracking, ws.GetCategories))
	mux.HandleFunc("GET /prices", common.JsonHandler(ws.Tracking, ws.GetPriceExtent))

	if ws.Cart != nil {
		mux.Handle("/cart/", http.StripPrefix("/cart", ws.Cart.CartHandler()))
	}
	if ws.Checkout != nil {
		mux.Handle("/checkout/", http.StripPrefix("/checkout", ws.Checkout.CheckoutHandler()))
	}
	if ws.Auth != nil {
		mux.Handle("/auth/", http.StripPrefix("/auth", ws.Auth.AuthHandler()))
	}
	return mux
}
