package orders

// PlacedEvent is published after a checkout stores an order.
type PlacedEvent struct {
	OrderID       string  `json:"order_id"`
	CartID        string  `json:"cart_id"`
	Subtotal      float64 `json:"subtotal"`
	Email         string  `json:"email,omitempty"`
	CorrelationID string  `json:"correlation_id,omitempty"`
}
