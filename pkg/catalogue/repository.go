package catalogue

import "context"

// Repository is the persistence contract the store depends on. Any backing
// substrate with key/value-plus-scan semantics satisfies it; the tree ships
// a gorm-backed adapter and an in-memory adapter.
//
// Implementations return ErrNotFound from FindByID when no document exists
// for the id, and must treat the aggregates they receive and return as
// owned by the caller (no retained references).
type Repository interface {
	// SaveOrReplace persists the document, overwriting any prior state
	// under the same id.
	SaveOrReplace(ctx context.Context, sd *ServiceDescription) error

	// FindByID returns the document with the given id.
	FindByID(ctx context.Context, id string) (*ServiceDescription, error)

	// FindAll returns every document, full history included.
	FindAll(ctx context.Context) ([]*ServiceDescription, error)
}
