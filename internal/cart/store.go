package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

// Store gives typed access to the cart item collection.
type Store struct {
	docs *docstore.Store
}

func NewStore(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

// Add stores item as a new cart line and returns its id.
func (s *Store) Add(ctx context.Context, item Item) (string, error) {
	item.ID = ""
	id, err := s.docs.Insert(ctx, Collection, item)
	if err != nil {
		return "", fmt.Errorf("add cart item: %w", err)
	}
	return id, nil
}

// Items returns every line stored for cartID.
func (s *Store) Items(ctx context.Context, cartID string) ([]Item, error) {
	out := []Item{}
	if err := s.docs.Query(ctx, Collection, docstore.Where("cart_id", cartID), &out); err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	if out == nil {
		out = []Item{}
	}
	return out, nil
}

// Total is the sum of price_snapshot × quantity, rounded to 2 decimals.
func Total(items []Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.PriceSnapshot).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return RoundMoney(sum)
}

// RoundMoney rounds d to cents.
func RoundMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
