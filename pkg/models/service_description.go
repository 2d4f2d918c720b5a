package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceDescription is the persisted form of a catalogue entry: stable id,
// structured metadata, and the full append-only revision history stored as
// a jsonb document.
type ServiceDescription struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Space is the owning namespace, indexed because visibility filtering
	// and authorization both key on it.
	Space string `gorm:"type:varchar(255);not null;index:idx_service_descriptions_space" json:"space"`

	Tags    StringArray `gorm:"type:jsonb" json:"tags"`
	LogoURI string      `gorm:"type:varchar(2048)" json:"logoURI"`

	// MetadataExtra carries opaque metadata fields so administrator-supplied
	// data round-trips unchanged.
	MetadataExtra JSON `gorm:"type:jsonb" json:"metadataExtra,omitempty"`

	// History holds every revision in append order. Never empty.
	History RevisionHistory `gorm:"type:jsonb;not null" json:"history"`
}

// TableName specifies the table name.
func (ServiceDescription) TableName() string {
	return "service_descriptions"
}

// BeforeCreate hook to ensure an id is assigned.
func (sd *ServiceDescription) BeforeCreate(tx *gorm.DB) error {
	if sd.ID == "" {
		sd.ID = uuid.NewString()
	}
	return nil
}

// Upsert saves the record, replacing any existing row with the same id.
func (sd *ServiceDescription) Upsert(db *gorm.DB) error {
	return db.Save(sd).Error
}

// Get retrieves the record with the receiver's id.
func (sd *ServiceDescription) Get(db *gorm.DB) error {
	return db.Where("id = ?", sd.ID).First(sd).Error
}

// ListServiceDescriptions retrieves every record in creation order.
func ListServiceDescriptions(db *gorm.DB) ([]ServiceDescription, error) {
	var records []ServiceDescription
	err := db.Order("created_at ASC, id ASC").Find(&records).Error
	return records, err
}

// Revision is one immutable content snapshot inside a history document.
type Revision struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pages       []string `json:"pages"`
}

// RevisionHistory stores the ordered revision list as JSON.
type RevisionHistory []Revision

// Value implements driver.Valuer.
func (h RevisionHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (h *RevisionHistory) Scan(value interface{}) error {
	if value == nil {
		*h = RevisionHistory{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan RevisionHistory: unsupported type %T", value)
	}

	return json.Unmarshal(bytes, h)
}
