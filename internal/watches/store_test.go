package watches

import (
	"context"
	"errors"
	"testing"

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

func TestSeed_OnlyOnce(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	n, err := s.Seed(ctx, Samples())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted, got %d", n)
	}
	for i := 0; i < 3; i++ {
		n, err = s.Seed(ctx, Samples())
		if err != nil {
			t.Fatalf("reseed: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected no inserts on reseed, got %d", n)
		}
	}
	if got := len(mock.Items("test_watch")); got != 3 {
		t.Fatalf("expected 3 stored watches, got %d", got)
	}
}

func TestList_Filters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Seed(ctx, Samples()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	all, err := s.List(ctx, ListFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 watches, got %d (%v)", len(all), err)
	}

	sport, _ := s.List(ctx, ListFilter{Collection: "sport"})
	if len(sport) != 1 || sport[0].Title != "AquaSport 300" {
		t.Fatalf("unexpected sport watches %+v", sport)
	}

	brand, _ := s.List(ctx, ListFilter{Brand: "Novelle"})
	if len(brand) != 1 || brand[0].Title != "Elegance Dress 40" {
		t.Fatalf("unexpected brand watches %+v", brand)
	}

	chrono, _ := s.List(ctx, ListFilter{Query: "Chrono"})
	if len(chrono) != 1 || chrono[0].Title != "ChronoMaster Pro" {
		t.Fatalf("expected only ChronoMaster Pro, got %+v", chrono)
	}
	lower, _ := s.List(ctx, ListFilter{Query: "chrono"})
	if len(lower) != 1 {
		t.Fatalf("title search must be case-insensitive")
	}

	none, err := s.List(ctx, ListFilter{Brand: "Nobody"})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v (%v)", none, err)
	}
}

func TestGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Seed(ctx, Samples()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	all, _ := s.List(ctx, ListFilter{})

	w, err := s.Get(ctx, all[0].ID)
	if err != nil || w == nil {
		t.Fatalf("expected watch, got %v (%v)", w, err)
	}
	if w.ID != all[0].ID || w.Description == nil || len(w.Images) != 2 || !w.InStock {
		t.Fatalf("unexpected watch %+v", w)
	}

	missing, err := s.Get(ctx, "0d9cf0c6-2a55-4fd0-a1c4-8cbd9d2f2f5b")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", missing, err)
	}

	if _, err := s.Get(ctx, "bad-id"); !errors.Is(err, docstore.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
