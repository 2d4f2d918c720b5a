// Package gormstore provides the database-backed Repository, mapping the
// catalogue aggregate onto the gorm record in pkg/models.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/apigovau/service-catalogue/pkg/catalogue"
	"github.com/apigovau/service-catalogue/pkg/models"
)

// Repository persists service descriptions through gorm. Works against both
// the PostgreSQL and SQLite dialects.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an open database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveOrReplace persists the document, overwriting any prior row.
func (r *Repository) SaveOrReplace(ctx context.Context, sd *catalogue.ServiceDescription) error {
	record := toRecord(sd)
	if err := record.Upsert(r.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("error upserting service description: %w", err)
	}
	return nil
}

// FindByID returns the document with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (*catalogue.ServiceDescription, error) {
	record := models.ServiceDescription{ID: id}
	if err := record.Get(r.db.WithContext(ctx)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogue.ErrNotFound
		}
		return nil, fmt.Errorf("error finding service description: %w", err)
	}
	return fromRecord(&record), nil
}

// FindAll returns every document in creation order.
func (r *Repository) FindAll(ctx context.Context) ([]*catalogue.ServiceDescription, error) {
	records, err := models.ListServiceDescriptions(r.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error listing service descriptions: %w", err)
	}

	out := make([]*catalogue.ServiceDescription, 0, len(records))
	for i := range records {
		out = append(out, fromRecord(&records[i]))
	}
	return out, nil
}

func toRecord(sd *catalogue.ServiceDescription) *models.ServiceDescription {
	history := make(models.RevisionHistory, 0, len(sd.History))
	for _, c := range sd.History {
		history = append(history, models.Revision{
			Name:        c.Name,
			Description: c.Description,
			Pages:       append([]string{}, c.Pages...),
		})
	}
	return &models.ServiceDescription{
		ID:            sd.ID,
		CreatedAt:     sd.CreatedAt,
		UpdatedAt:     sd.UpdatedAt,
		Space:         sd.Metadata.Space,
		Tags:          models.StringArray(append([]string{}, sd.Tags...)),
		LogoURI:       sd.LogoURI,
		MetadataExtra: models.JSON(sd.Metadata.Extra),
		History:       history,
	}
}

func fromRecord(record *models.ServiceDescription) *catalogue.ServiceDescription {
	history := make([]catalogue.Content, 0, len(record.History))
	for _, rev := range record.History {
		history = append(history, catalogue.Content{
			Name:        rev.Name,
			Description: rev.Description,
			Pages:       append([]string{}, rev.Pages...),
		})
	}
	return &catalogue.ServiceDescription{
		ID: record.ID,
		Metadata: catalogue.Metadata{
			Space: record.Space,
			Extra: json.RawMessage(record.MetadataExtra),
		},
		Tags:      append([]string{}, record.Tags...),
		LogoURI:   record.LogoURI,
		History:   history,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
