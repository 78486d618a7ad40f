package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/slask-store/pkg/cart"
	"github.com/matst80/slask-store/pkg/types"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrMissingUser          = errors.New("order requires a signed in user")
)

type PaymentMethod string

// Cash on delivery is the only selectable method today.
const PaymentCashOnDelivery PaymentMethod = "cod"

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

type OrderItem struct {
	ProductId types.ItemId `json:"product_id"`
	Quantity  uint         `json:"quantity"`
	Price     int          `json:"price"`
}

type Order struct {
	Id            string        `json:"id"`
	UserId        string        `json:"user_id"`
	Items         []OrderItem   `json:"items"`
	Subtotal      int           `json:"subtotal"`
	ShippingFee   int           `json:"shipping_fee"`
	TotalPrice    int           `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes,omitempty"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BuildOrder turns the current cart into an order snapshot. The item
// prices are the discounted unit prices the cart already captured.
func BuildOrder(userId string, c *cart.Cart, method PaymentMethod, notes string, shippingFee int) (*Order, error) {
	if userId == "" {
		return nil, ErrMissingUser
	}
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if method != PaymentCashOnDelivery {
		return nil, ErrInvalidPaymentMethod
	}

	items := make([]OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, OrderItem{
			ProductId: line.ProductId,
			Quantity:  line.Quantity,
			Price:     line.DiscountedUnitPrice,
		})
	}

	subtotal := c.TotalPrice
	return &Order{
		Id:            uuid.New().String(),
		UserId:        userId,
		Items:         items,
		Subtotal:      subtotal,
		ShippingFee:   shippingFee,
		TotalPrice:    subtotal + shippingFee,
		PaymentMethod: method,
		Notes:         notes,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
