package cart

import (
	"context"
	"testing"

	"github.com/imrishuroy/go-watch-store/internal/docstore"
	"github.com/imrishuroy/go-watch-store/internal/testkit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	docs, err := docstore.Connect(context.Background(), testkit.NewFakeDynamo(), docstore.Options{
		URL: "http://local", Name: "test", Collections: []string{Collection},
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return NewStore(docs)
}

func TestAdd_SameProductTwiceKeepsTwoLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	line := Item{CartID: "c1", ProductID: "p1", Quantity: 1, PriceSnapshot: 599}

	id1, err := s.Add(ctx, line)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id2, err := s.Add(ctx, line)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct ids")
	}

	items, err := s.Items(ctx, "c1")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if got := Total(items); got != 1198 {
		t.Fatalf("expected total 1198, got %v", got)
	}
}

func TestItems_ScopedToCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Add(ctx, Item{CartID: "a", ProductID: "p", Quantity: 1, PriceSnapshot: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(ctx, Item{CartID: "b", ProductID: "p", Quantity: 3, PriceSnapshot: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, _ := s.Items(ctx, "b")
	if len(items) != 1 || items[0].Quantity != 3 || items[0].ID == "" {
		t.Fatalf("unexpected items %+v", items)
	}

	empty, err := s.Items(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v (%v)", empty, err)
	}
}

func TestTotal(t *testing.T) {
	cases := []struct {
		name  string
		items []Item
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []Item{{PriceSnapshot: 599.0, Quantity: 2}}, 1198.0},
		{"rounding", []Item{{PriceSnapshot: 0.1, Quantity: 3}, {PriceSnapshot: 0.2, Quantity: 1}}, 0.5},
		{"cents", []Item{{PriceSnapshot: 19.995, Quantity: 1}}, 20.0},
		{"mixed", []Item{{PriceSnapshot: 749, Quantity: 1}, {PriceSnapshot: 899.5, Quantity: 2}}, 2548},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(tc.items); got != tc.want {
				t.Fatalf("Total() = %v, want %v", got, tc.want)
			}
		})
	}
}
