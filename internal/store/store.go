package store

import (
	"context"

	"github.com/rfcorreia/go-identity-service/internal/types"
)

// UserStore is the user directory. Implementations assign record IDs
// monotonically (max existing ID + 1, minimum 1) and enforce email
// uniqueness at creation time. Records are never deleted.
type UserStore interface {
	// Create assigns an ID to the record, persists it and returns it.
	// Returns types.ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, user types.User) (*types.User, error)

	// GetByID returns types.ErrNotFound for an unknown ID.
	GetByID(ctx context.Context, id int64) (*types.User, error)

	// GetByEmail returns types.ErrNotFound for an unknown email.
	// Matching is case-sensitive as stored.
	GetByEmail(ctx context.Context, email string) (*types.User, error)

	// List returns all records in ascending ID order.
	List(ctx context.Context) ([]types.User, error)

	// Deactivate flips IsActive to false. Deactivating an already
	// inactive record succeeds. Returns types.ErrNotFound for an
	// unknown ID.
	Deactivate(ctx context.Context, id int64) error

	// Count reports the number of records.
	Count(ctx context.Context) (int, error)
}
