package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

// Store encapsulates operations on the order collection.
type Store struct {
	docs    *docstore.Store
	nowFunc func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(docs *docstore.Store) *Store {
	return &Store{
		docs:    docs,
		nowFunc: time.Now,
	}
}

// Create persists o and returns the new order id. CreatedAt is set when empty.
func (s *Store) Create(ctx context.Context, o Order) (string, error) {
	o.ID = ""
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.nowFunc().UTC()
	}
	id, err := s.docs.Insert(ctx, Collection, o)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	found, err := s.docs.FindOne(ctx, Collection, orderID, &o)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}
