package domain

import "time"

// Item is a purchasable catalog entry.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Available bool    `json:"available"`
}

// Account is a registered user. Password is never serialized.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"isAdmin"`
}

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted:
		return true
	}
	return false
}

// OrderLine is a single position in an order. Price is the item price
// captured when the order was accepted; it is never recomputed.
type OrderLine struct {
	ItemID   string  `json:"itemId"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a placed order. TotalAmount and the line prices are fixed at
// creation; only Status changes afterwards.
type Order struct {
	ID          string      `json:"id"`
	User        string      `json:"user"`
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}
