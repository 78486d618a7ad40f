package cart

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/common"
	"github.com/matst80/slask-store/pkg/types"
)

var (
	noCartAdds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_cart_adds_total",
		Help: "The total number of add to cart operations",
	})
	noCartChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_cart_changes_total",
		Help: "The total number of cart quantity changes and removals",
	})
)

type Server struct {
	Storage   Storage
	IdHandler IdStorage
	Catalog   *catalog.Index
	Tracking  types.Tracking
}

type AddItemRequest struct {
	ItemId   types.ItemId `json:"id"`
	Quantity uint         `json:"quantity"`
}

type ChangeQuantityRequest struct {
	Id       types.ItemId `json:"id"`
	Quantity uint         `json:"quantity"`
}

// snapshotLine builds the immutable cart line for a product: title resolved
// in the request locale, offer price captured as the charged price, images
// after fallback. Later catalog or locale changes do not touch it.
func (s *Server) snapshotLine(id types.ItemId, locale types.Locale) (Line, error) {
	product, ok := s.Catalog.Get(id)
	if !ok {
		return Line{}, fmt.Errorf("product %d not found", id)
	}
	imgs := product.Images.WithFallback()
	return Line{
		ProductId:           product.Id,
		Title:               product.GetTitle(locale),
		UnitPrice:           product.Price,
		DiscountedUnitPrice: product.EffectivePrice(),
		Thumbnails:          imgs.Thumbnails,
		Previews:            imgs.Previews,
	}, nil
}

func (s *Server) GetSessionCart(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	cartId, err := handleCartCookie(s.IdHandler, w, r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return err
	}
	cart, err := s.Storage.GetCart(cartId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(cart)
}

func (s *Server) AddSessionItem(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	cartId, err := handleCartCookie(s.IdHandler, w, r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	var item AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid item", http.StatusBadRequest)
		return err
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	line, err := s.snapshotLine(item.ItemId, types.LocaleFromRequest(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	cart, err := s.Storage.AddItem(cartId, line, item.Quantity)
	if err != nil {
		http.Error(w, "Error adding item", http.StatusInternalServerError)
		return err
	}
	noCartAdds.Inc()
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, item.ItemId, item.Quantity)
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(cart)
}

func (s *Server) ChangeSessionQuantity(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return err
	}
	var change ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, "Invalid item", http.StatusBadRequest)
		return err
	}
	var cart *Cart
	// quantity zero means the decrement went below one, treat as removal
	if change.Quantity == 0 {
		cart, err = s.Storage.RemoveItem(cartId, change.Id)
	} else {
		cart, err = s.Storage.SetQuantity(cartId, change.Id, change.Quantity)
	}
	if err == ErrLineNotFound {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	if err != nil {
		http.Error(w, "Error changing quantity", http.StatusInternalServerError)
		return err
	}
	noCartChanges.Inc()
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, change.Id, change.Quantity)
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(cart)
}

func (s *Server) RemoveSessionItem(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return err
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return err
	}
	cart, err := s.Storage.RemoveItem(cartId, types.ItemId(id))
	if err != nil {
		http.Error(w, "Error removing item", http.StatusInternalServerError)
		return err
	}
	noCartChanges.Inc()
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(cart)
}

func (s *Server) ClearSessionCart(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	cartId, err := handleCartCookie(nil, w, r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return err
	}
	cart, err := s.Storage.Clear(cartId)
	if err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return err
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(cart)
}

func (s *Server) CartHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", common.JsonHandler(s.Tracking, s.GetSessionCart))
	mux.HandleFunc("POST /", common.JsonHandler(s.Tracking, s.AddSessionItem))
	mux.HandleFunc("PUT /", common.JsonHandler(s.Tracking, s.ChangeSessionQuantity))
	mux.HandleFunc("DELETE /{id}", common.JsonHandler(s.Tracking, s.RemoveSessionItem))
	mux.HandleFunc("DELETE /", common.JsonHandler(s.Tracking, s.ClearSessionCart))
	return mux
}
