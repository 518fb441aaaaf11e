package validation

// AddToCartRequest is the payload for POST /cart/add
type AddToCartRequest struct {
	CartID    string `json:"cart_id" validate:"required"`    // client session key
	ProductID string `json:"product_id" validate:"required"` // watch id
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

// QuantityOrDefault returns the requested quantity, 1 when omitted.
func (r AddToCartRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// CheckoutRequest is the payload for POST /checkout
type CheckoutRequest struct {
	CartID string  `json:"cart_id" validate:"required"`
	Email  *string `json:"email,omitempty"`
}

// User is the declared user record. No endpoint reads or writes users.
type User struct {
	Name     string `json:"name" dynamodbav:"name" validate:"required"`
	Email    string `json:"email" dynamodbav:"email" validate:"required"`
	Address  string `json:"address" dynamodbav:"address" validate:"required"`
	Age      *int   `json:"age,omitempty" dynamodbav:"age,omitempty" validate:"omitempty,min=0,max=120"`
	IsActive bool   `json:"is_active" dynamodbav:"is_active"`
}

// NewUser returns a User with the schema defaults applied.
func NewUser(name, email, address string) User {
	return User{Name: name, Email: email, Address: address, IsActive: true}
}
