package repository

import (
	"context"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StateRepository persists the draft engine's single state record (active
// draft + saved history) as an opaque payload under a fixed storage key.
// Implementations are storage-agnostic: the payload is already serialized by
// the state codec and must be stored and returned byte-for-byte.
type StateRepository interface {
	// Save overwrites the state record.
	Save(ctx context.Context, payload []byte) error
	// Load returns the last saved record, or ErrNotFound if none exists.
	Load(ctx context.Context) ([]byte, error)
	// Delete removes the record entirely (local-data-wipe operations).
	Delete(ctx context.Context) error
}

// CatalogRepository defines the interface for interacting with the exercise
// catalog collection.
type CatalogRepository interface {
	Create(ctx context.Context, entry *domain.CatalogEntry) (string, error)
	GetByName(ctx context.Context, name string) (*domain.CatalogEntry, error)
	GetByID(ctx context.Context, id string) (*domain.CatalogEntry, error)
}
