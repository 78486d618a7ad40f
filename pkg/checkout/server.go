package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-store/pkg/auth"
	"github.com/matst80/slask-store/pkg/cart"
	"github.com/matst80/slask-store/pkg/common"
	"github.com/matst80/slask-store/pkg/messaging"
	"github.com/matst80/slask-store/pkg/types"
)

var (
	noOrders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_orders_total",
		Help: "The total number of placed orders",
	})
	noFailedOrders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstore_orders_failed_total",
		Help: "The total number of failed order placements",
	})
)

type Server struct {
	Orders      OrderStorage
	Carts       cart.Storage
	Auth        *auth.Server
	Tracking    types.Tracking
	ShippingFee int
	Events      *amqp.Connection
}

type placeOrderRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes,omitempty"`
}

func (s *Server) publishOrderCreated(order *Order) {
	if s.Events == nil {
		return
	}
	if err := messaging.SendChange(s.Events, "global", messaging.OrderCreated, order); err != nil {
		log.Printf("Error publishing order %s: %v", order.Id, err)
	}
}

// PlaceOrder turns the session cart into a stored order. The cart is only
// cleared after the order was written, a failed placement leaves it intact
// so the user can retry.
func (s *Server) PlaceOrder(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	cartId, err := cart.CartIdFromRequest(r)
	if err != nil {
		http.Error(w, "No cart session", http.StatusBadRequest)
		return nil
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return err
	}

	current, err := s.Carts.GetCart(cartId)
	if err != nil {
		noFailedOrders.Inc()
		http.Error(w, "Error reading cart", http.StatusInternalServerError)
		return err
	}

	order, err := BuildOrder(claims.UserId, current, req.PaymentMethod, req.Notes, s.ShippingFee)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInvalidPaymentMethod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}

	if err := s.Orders.SaveOrder(order); err != nil {
		noFailedOrders.Inc()
		http.Error(w, "Error placing order", http.StatusInternalServerError)
		return err
	}

	if _, err := s.Carts.Clear(cartId); err != nil {
		// order is already durable, losing the clear only leaves a
		// stale cart behind
		log.Printf("Error clearing cart %d after order %s: %v", cartId, order.Id, err)
	}

	noOrders.Inc()
	go s.publishOrderCreated(order)
	if s.Tracking != nil {
		s.Tracking.TrackPurchase(sessionId, order.Id, order.TotalPrice)
	}

	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(order)
}

// OrderHistory lists the signed in users orders, newest first.
func (s *Server) OrderHistory(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	orders, err := s.Orders.ListByUser(claims.UserId)
	if err != nil {
		http.Error(w, "Error loading orders", http.StatusInternalServerError)
		return err
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(orders)
}

func (s *Server) CheckoutHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /order", s.Auth.RequireAuth(common.JsonHandler(s.Tracking, s.PlaceOrder)))
	mux.HandleFunc("GET /orders", s.Auth.RequireAuth(common.JsonHandler(s.Tracking, s.OrderHistory)))
	return mux
}
