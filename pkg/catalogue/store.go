// Package catalogue owns the revisioned service description model: document
// identity, metadata, and an append-only content history. Every mutating
// operation consults the authorization gate before touching persistence.
package catalogue

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/apigovau/service-catalogue/pkg/auth"
)

// Summary is the per-document record returned by List.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	LogoURI     string   `json:"logoURI"`
	Metadata    Metadata `json:"metadata"`
}

// Store exposes the catalogue operations over a Repository, gated by an
// authorization Gate. It serializes revisions per document so concurrent
// Revise calls against the same id cannot lose appends.
type Store struct {
	repo Repository
	gate auth.Gate
	log  hclog.Logger

	// publicSpaces is the allow-list of spaces visible to unprivileged
	// callers on the list and fetch paths.
	publicSpaces map[string]struct{}

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore builds a store. publicSpaces may be empty, in which case
// unprivileged callers see nothing.
func NewStore(repo Repository, gate auth.Gate, publicSpaces []string, log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	public := make(map[string]struct{}, len(publicSpaces))
	for _, s := range publicSpaces {
		public[s] = struct{}{}
	}
	return &Store{
		repo:         repo,
		gate:         gate,
		log:          log,
		publicSpaces: public,
		locks:        make(map[string]*sync.Mutex),
	}
}

// Create constructs a new description with default content in the given
// space. Requires write access to that space.
func (s *Store) Create(ctx context.Context, creds auth.Credentials, space string) (*ServiceDescription, error) {
	return s.CreateWithContent(ctx, creds, DefaultContent(), space)
}

// CreateWithContent constructs a new description whose single-element
// history is the submitted content. Requires write access to the target
// space; on denial nothing is persisted.
func (s *Store) CreateWithContent(ctx context.Context, creds auth.Credentials, content Content, space string) (*ServiceDescription, error) {
	if !s.gate.CanWrite(ctx, creds, space) {
		return nil, ErrForbidden
	}

	sd := NewServiceDescription(content, space)
	if err := s.repo.SaveOrReplace(ctx, sd); err != nil {
		return nil, fmt.Errorf("error saving service description: %w", err)
	}

	s.log.Info("created service description",
		"id", sd.ID,
		"space", space,
	)
	return sd.Clone(), nil
}

// List returns summaries of every document the caller may see. Privileged
// callers see everything; unprivileged callers see only documents in
// public spaces.
func (s *Store) List(ctx context.Context, privileged bool) ([]Summary, error) {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing service descriptions: %w", err)
	}

	summaries := make([]Summary, 0, len(docs))
	for _, sd := range docs {
		if !privileged && !s.isPublic(sd.Metadata.Space) {
			continue
		}
		current := sd.CurrentContent()
		summaries = append(summaries, Summary{
			ID:          sd.ID,
			Name:        current.Name,
			Description: current.Description,
			Tags:        append([]string{}, sd.Tags...),
			LogoURI:     sd.LogoURI,
			Metadata:    sd.Metadata,
		})
	}
	return summaries, nil
}

// Fetch returns the current revision of the named document. Missing ids and
// restricted documents yield the same ErrUnauthorizedToView so callers
// cannot distinguish the two.
func (s *Store) Fetch(ctx context.Context, id string, privileged bool) (Content, error) {
	sd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Content{}, ErrUnauthorizedToView
	}
	if !privileged && !s.isPublic(sd.Metadata.Space) {
		return Content{}, ErrUnauthorizedToView
	}
	return sd.CurrentContent(), nil
}

// SetMetadata replaces a document's metadata wholesale, history untouched.
// Gated on the admin space: metadata changes, including moving a document
// to a different space, are an administrator concern regardless of which
// space the document currently sits in.
func (s *Store) SetMetadata(ctx context.Context, creds auth.Credentials, id string, metadata Metadata) (Metadata, error) {
	if !s.gate.CanWrite(ctx, creds, AdminSpace) {
		return Metadata{}, ErrForbidden
	}

	unlock := s.lockDocument(id)
	defer unlock()

	sd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Metadata{}, err
	}

	sd.Metadata = metadata
	if err := s.repo.SaveOrReplace(ctx, sd); err != nil {
		return Metadata{}, fmt.Errorf("error saving service description: %w", err)
	}

	s.log.Info("replaced service description metadata",
		"id", id,
		"space", metadata.Space,
	)
	return sd.Metadata, nil
}

// Revise appends content as a new revision and returns the new current
// content. Gated on the document's current space, so day-to-day content
// edits are delegated to space owners.
func (s *Store) Revise(ctx context.Context, creds auth.Credentials, id string, content Content) (Content, error) {
	unlock := s.lockDocument(id)
	defer unlock()

	sd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Content{}, err
	}

	if !s.gate.CanWrite(ctx, creds, sd.Metadata.Space) {
		return Content{}, ErrForbidden
	}

	current := sd.Revise(content)
	if err := s.repo.SaveOrReplace(ctx, sd); err != nil {
		return Content{}, fmt.Errorf("error saving service description: %w", err)
	}

	s.log.Info("revised service description",
		"id", id,
		"revisions", len(sd.History),
	)
	return current, nil
}

// BackupAll returns every document with full history, for privileged
// export. Gated on the admin space.
func (s *Store) BackupAll(ctx context.Context, creds auth.Credentials) ([]*ServiceDescription, error) {
	if !s.gate.CanWrite(ctx, creds, AdminSpace) {
		return nil, ErrForbidden
	}
	return s.repo.FindAll(ctx)
}

// IsPrivileged reports whether the caller passes the authorization check
// against the admin space. Read paths use this to decide visibility.
func (s *Store) IsPrivileged(ctx context.Context, creds auth.Credentials) bool {
	return s.gate.CanWrite(ctx, creds, AdminSpace)
}

func (s *Store) isPublic(space string) bool {
	_, ok := s.publicSpaces[space]
	return ok
}

// lockDocument takes the per-document mutex, creating it on first use.
// Mutexes are never removed; the document population is small and ids are
// never deleted in this design.
func (s *Store) lockDocument(id string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
