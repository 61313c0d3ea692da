package doctorRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrNotFound is returned when no doctor matches.
var ErrNotFound = errors.New("doctor not found")

// DoctorRepository defines methods for doctor data access.
type DoctorRepository interface {
	// Create inserts a new doctor record.
	Create(ctx context.Context, doc *models.Doctor) error
	// GetByID retrieves a doctor by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	// ListBySpecialty retrieves the verified doctors of a specialty.
	ListBySpecialty(ctx context.Context, specialty string) ([]models.Doctor, error)
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
