// package models defines the data model for reupload history tracking
package models

import (
	"time"
)

// Model is the base interface for persistent records.
type Model interface {
	ID() string           // ID returns the unique identifier for this record
	CreatedAt() time.Time // CreatedAt returns when this record was created
	UpdatedAt() time.Time // UpdatedAt returns when this record was last updated
	Validate() error      // Validate checks the record's data and returns an error if invalid
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific record types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new record into the database
	Get(id string) (T, error)                  // Get retrieves a record by its ID
	Update(model T) error                      // Update modifies an existing record in the database
	Delete(id string) error                    // Delete removes a record from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all records matching the given criteria
}
