package cart

import "errors"

// Collection is the document collection holding cart items.
const Collection = "cartitem"

// ErrEmpty is returned when a cart has no items.
var ErrEmpty = errors.New("cart is empty")

// Item is one line of a cart. Adding the same product twice stores two items.
// The snapshot fields copy the product at the time it was added.
type Item struct {
	ID            string  `dynamodbav:"_id,omitempty" json:"id"`
	CartID        string  `dynamodbav:"cart_id" json:"cart_id" validate:"required"`
	ProductID     string  `dynamodbav:"product_id" json:"product_id" validate:"required"`
	Quantity      int     `dynamodbav:"quantity" json:"quantity" validate:"min=1"`
	PriceSnapshot float64 `dynamodbav:"price_snapshot" json:"price_snapshot" validate:"gte=0"`
	TitleSnapshot *string `dynamodbav:"title_snapshot" json:"title_snapshot"`
	ImageSnapshot *string `dynamodbav:"image_snapshot" json:"image_snapshot"`
}
