package orders

import (
	"time"

	"github.com/imrishuroy/go-watch-store/internal/cart"
)

// Collection is the document collection holding orders.
const Collection = "order"

// StatusPaid is the only status an order takes; there is no payment step.
const StatusPaid = "paid"

// Item is a cart line copied into an order at checkout.
type Item struct {
	ID            string  `dynamodbav:"id" json:"id"`
	CartID        string  `dynamodbav:"cart_id" json:"cart_id"`
	ProductID     string  `dynamodbav:"product_id" json:"product_id" validate:"required"`
	Quantity      int     `dynamodbav:"quantity" json:"quantity" validate:"min=1"`
	PriceSnapshot float64 `dynamodbav:"price_snapshot" json:"price_snapshot" validate:"gte=0"`
	TitleSnapshot *string `dynamodbav:"title_snapshot" json:"title_snapshot"`
	ImageSnapshot *string `dynamodbav:"image_snapshot" json:"image_snapshot"`
}

// Order is written once at checkout and never updated.
type Order struct {
	ID        string    `dynamodbav:"_id,omitempty" json:"id"`
	CartID    string    `dynamodbav:"cart_id" json:"cart_id" validate:"required"`
	Items     []Item    `dynamodbav:"items" json:"items" validate:"dive"`
	Subtotal  float64   `dynamodbav:"subtotal" json:"subtotal" validate:"gte=0"`
	Status    string    `dynamodbav:"status" json:"status" validate:"required"`
	Email     *string   `dynamodbav:"email" json:"email"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
}

// FromCart snapshots cart lines into a paid order. It returns cart.ErrEmpty for an empty cart.
func FromCart(cartID string, lines []cart.Item, email *string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, cart.ErrEmpty
	}
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			ID:            l.ID,
			CartID:        l.CartID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			PriceSnapshot: l.PriceSnapshot,
			TitleSnapshot: l.TitleSnapshot,
			ImageSnapshot: l.ImageSnapshot,
		})
	}
	return Order{
		CartID:   cartID,
		Items:    items,
		Subtotal: cart.Total(lines),
		Status:   StatusPaid,
		Email:    email,
	}, nil
}

// ItemsTotal recomputes the rounded sum of an order's items.
func (o Order) ItemsTotal() float64 {
	lines := make([]cart.Item, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, cart.Item{PriceSnapshot: it.PriceSnapshot, Quantity: it.Quantity})
	}
	return cart.Total(lines)
}
