package tracking

import (
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-store/pkg/messaging"
	"github.com/matst80/slask-store/pkg/types"
)

// RabbitTracking publishes storefront events to a tracking topic. Every
// Track method is fire and forget, a broken broker only shows up in the
// log.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		connection: nil,
		country:    country,
	}
	err := ret.connect(url)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, "global", messaging.Tracking)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.SendChange(t.connection, "global", messaging.Tracking, data)
}

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	err := t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId, Country: t.country},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

type CartEvent struct {
	*BaseEvent
	Item     types.ItemId `json:"item"`
	Quantity uint         `json:"quantity"`
}

func (t *RabbitTracking) TrackAddToCart(sessionId int, itemId types.ItemId, quantity uint) {
	err := t.send(CartEvent{
		BaseEvent: &BaseEvent{Event: 1, SessionId: sessionId, Country: t.country},
		Item:      itemId,
		Quantity:  quantity,
	})
	if err != nil {
		log.Println("Error sending cart event: ", err)
	}
}

type PurchaseEvent struct {
	*BaseEvent
	OrderId string `json:"order_id"`
	Total   int    `json:"total"`
}

func (t *RabbitTracking) TrackPurchase(sessionId int, orderId string, total int) {
	err := t.send(PurchaseEvent{
		BaseEvent: &BaseEvent{Event: 2, SessionId: sessionId, Country: t.country},
		OrderId:   orderId,
		Total:     total,
	})
	if err != nil {
		log.Println("Error sending purchase event: ", err)
	}
}

type CatalogQueryEvent struct {
	*BaseEvent
	NumberOfResults int `json:"noi"`
}

func (t *RabbitTracking) TrackCatalogQuery(sessionId int, hits int) {
	err := t.send(CatalogQueryEvent{
		BaseEvent:       &BaseEvent{Event: 3, SessionId: sessionId, Country: t.country},
		NumberOfResults: hits,
	})
	if err != nil {
		log.Println("Error sending catalog query event: ", err)
	}
}
