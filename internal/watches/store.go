package watches

import (
	"context"
	"fmt"

	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

// Store gives typed access to the watch collection.
type Store struct {
	docs *docstore.Store
}

func NewStore(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

// List returns all watches matching f.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Watch, error) {
	filter := docstore.Filter{Equal: map[string]interface{}{}}
	if f.Collection != "" {
		filter.Equal["collection"] = f.Collection
	}
	if f.Brand != "" {
		filter.Equal["brand"] = f.Brand
	}
	if f.Query != "" {
		filter.Match = map[string]string{"title": f.Query}
	}

	out := []Watch{}
	if err := s.docs.Query(ctx, Collection, filter, &out); err != nil {
		return nil, fmt.Errorf("list watches: %w", err)
	}
	if out == nil {
		out = []Watch{}
	}
	return out, nil
}

// Get fetches a watch by id. Returns (nil, nil) if not found and
// docstore.ErrInvalidID for a malformed id.
func (s *Store) Get(ctx context.Context, id string) (*Watch, error) {
	var w Watch
	found, err := s.docs.FindOne(ctx, Collection, id, &w)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &w, nil
}

// Seed inserts samples when the collection is empty and reports how many were inserted.
// Concurrent first calls can both insert; nothing guards the count check.
func (s *Store) Seed(ctx context.Context, samples []Watch) (int, error) {
	n, err := s.docs.Count(ctx, Collection, docstore.Filter{})
	if err != nil {
		return 0, fmt.Errorf("count watches: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i, w := range samples {
		w.ID = ""
		if _, err := s.docs.Insert(ctx, Collection, w); err != nil {
			return i, fmt.Errorf("insert sample %q: %w", w.Title, err)
		}
	}
	return len(samples), nil
}
