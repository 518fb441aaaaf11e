package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-watch-store/internal/orders"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// an order's subtotal must equal the sum of (price_snapshot * quantity) of its items.
	v.RegisterStructValidation(orderStructValidation, orders.Order{})

	return v
}

// orderStructValidation verifies the aggregated total of items equals Subtotal (within cents)
func orderStructValidation(sl validatorv10.StructLevel) {
	o := sl.Current().Interface().(orders.Order)

	sum := o.ItemsTotal()
	sumCents := int64(math.Round(sum * 100))
	subtotalCents := int64(math.Round(o.Subtotal * 100))
	if sumCents != subtotalCents {
		sl.ReportError(o.Subtotal, "subtotal", "Subtotal", "subtotal_match_items", fmt.Sprintf("items sum %.2f != subtotal %.2f", sum, o.Subtotal))
	}
}
