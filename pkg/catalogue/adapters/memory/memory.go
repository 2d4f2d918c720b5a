// Package memory provides an in-memory Repository, used by tests and by
// the zero-config development mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// Repository stores aggregates in a map guarded by a RWMutex. All inputs
// and outputs are deep-copied so callers never share state with the map.
type Repository struct {
	mu   sync.RWMutex
	docs map[string]*catalogue.ServiceDescription
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		docs: make(map[string]*catalogue.ServiceDescription),
	}
}

// SaveOrReplace persists the document, overwriting any prior state.
func (r *Repository) SaveOrReplace(_ context.Context, sd *catalogue.ServiceDescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[sd.ID] = sd.Clone()
	return nil
}

// FindByID returns the document with the given id, or ErrNotFound.
func (r *Repository) FindByID(_ context.Context, id string) (*catalogue.ServiceDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sd, ok := r.docs[id]
	if !ok {
		return nil, catalogue.ErrNotFound
	}
	return sd.Clone(), nil
}

// FindAll returns every document, ordered by creation time for stable
// listings.
func (r *Repository) FindAll(_ context.Context) ([]*catalogue.ServiceDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*catalogue.ServiceDescription, 0, len(r.docs))
	for _, sd := range r.docs {
		out = append(out, sd.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
