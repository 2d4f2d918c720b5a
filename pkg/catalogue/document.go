package catalogue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AdminSpace is the sentinel space that gates metadata changes and full
// exports. A caller authorized to write to this space is considered
// privileged.
const AdminSpace = "admin"

// Content is one immutable revision of a service description. Once appended
// to a description's history it is never edited or removed.
type Content struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pages       []string `json:"pages"`
}

// Metadata is the structured, mutable part of a service description. Space
// is the namespace used for authorization decisions; reassigning it moves
// the document to a different authorization boundary. Extra carries any
// opaque fields submitted by administrators so they round-trip unchanged.
type Metadata struct {
	Space string          `json:"space"`
	Extra json.RawMessage `json:"extra,omitempty"`
}

// ServiceDescription is the aggregate root: a stable identity plus an
// append-only history of content revisions.
type ServiceDescription struct {
	ID        string    `json:"id"`
	Metadata  Metadata  `json:"metadata"`
	Tags      []string  `json:"tags"`
	LogoURI   string    `json:"logoURI"`
	History   []Content `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Default content for descriptions created without a submitted revision.
const (
	DefaultServiceName        = "NewServiceName"
	DefaultServiceDescription = "NewServiceDescription"
)

// DefaultContent returns the initial revision used by the create operation.
func DefaultContent() Content {
	return Content{
		Name:        DefaultServiceName,
		Description: DefaultServiceDescription,
		Pages:       []string{"# Page1"},
	}
}

// NewServiceDescription constructs a description with a single-element
// history, empty tags and logo, and a freshly assigned id.
func NewServiceDescription(initial Content, space string) *ServiceDescription {
	now := time.Now().UTC()
	return &ServiceDescription{
		ID:        uuid.NewString(),
		Metadata:  Metadata{Space: space},
		Tags:      []string{},
		History:   []Content{initial.clone()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CurrentContent returns the most recently appended revision. History is
// never empty after creation, so this is always defined.
func (sd *ServiceDescription) CurrentContent() Content {
	return sd.History[len(sd.History)-1].clone()
}

// Revise appends a new revision and returns it. Prior revisions keep their
// positions in history.
func (sd *ServiceDescription) Revise(c Content) Content {
	sd.History = append(sd.History, c.clone())
	sd.UpdatedAt = time.Now().UTC()
	return sd.CurrentContent()
}

// Clone returns a deep copy. The store hands out clones so callers never
// hold references into its internal state.
func (sd *ServiceDescription) Clone() *ServiceDescription {
	cp := *sd
	cp.Tags = append([]string{}, sd.Tags...)
	cp.History = make([]Content, 0, len(sd.History))
	for _, c := range sd.History {
		cp.History = append(cp.History, c.clone())
	}
	if sd.Metadata.Extra != nil {
		cp.Metadata.Extra = append(json.RawMessage{}, sd.Metadata.Extra...)
	}
	return &cp
}

func (c Content) clone() Content {
	cp := c
	cp.Pages = append([]string{}, c.Pages...)
	return cp
}
