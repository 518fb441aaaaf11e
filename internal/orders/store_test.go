package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imrishuroy/go-watch-store/internal/cart"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
	"github.com/imrishuroy/go-watch-store/internal/testkit"
)

func newTestStore(t *testing.T) (*Store, *testkit.FakeDynamo) {
	t.Helper()
	mock := testkit.NewFakeDynamo()
	docs, err := docstore.Connect(context.Background(), mock, docstore.Options{
		URL: "http://local", Name: "test", Collections: []string{Collection},
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return NewStore(docs), mock
}

func TestFromCart_Empty(t *testing.T) {
	if _, err := FromCart("c1", nil, nil); !errors.Is(err, cart.ErrEmpty) {
		t.Fatalf("expected cart.ErrEmpty, got %v", err)
	}
}

func TestFromCart_Snapshot(t *testing.T) {
	title := "ChronoMaster Pro"
	email := "a@example.com"
	o, err := FromCart("c1", []cart.Item{
		{ID: "line-1", CartID: "c1", ProductID: "p1", Quantity: 2, PriceSnapshot: 599.0, TitleSnapshot: &title},
	}, &email)
	if err != nil {
		t.Fatalf("from cart: %v", err)
	}
	if o.Subtotal != 1198.0 {
		t.Fatalf("expected subtotal 1198, got %v", o.Subtotal)
	}
	if o.Status != StatusPaid {
		t.Fatalf("expected status paid, got %s", o.Status)
	}
	if len(o.Items) != 1 || o.Items[0].ID != "line-1" || *o.Items[0].TitleSnapshot != title {
		t.Fatalf("unexpected items %+v", o.Items)
	}
	if o.ItemsTotal() != o.Subtotal {
		t.Fatalf("items total mismatch")
	}
}

func TestCreate_Get(t *testing.T) {
	s, mock := newTestStore(t)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s.nowFunc = func() time.Time { return fixed }
	ctx := context.Background()

	o, _ := FromCart("c1", []cart.Item{{ID: "l1", CartID: "c1", ProductID: "p1", Quantity: 1, PriceSnapshot: 10.5}}, nil)
	id, err := s.Create(ctx, o)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("expected order, got %v (%v)", got, err)
	}
	if got.ID != id || got.Subtotal != 10.5 || got.Status != StatusPaid || got.Email != nil {
		t.Fatalf("unexpected order %+v", got)
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Fatalf("created_at mismatch: %v", got.CreatedAt)
	}
	if n := len(mock.Items("test_order")); n != 1 {
		t.Fatalf("expected 1 stored order, got %d", n)
	}

	missing, err := s.Get(ctx, "9b7c2a7e-0c1f-4a6e-b6a4-5f0a0f1d2e3c")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", missing, err)
	}
}
