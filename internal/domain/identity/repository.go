package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// UserFilter is the query specification for user lookups
type UserFilter struct {
	shared.Filter
	Status *UserStatus
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID with role IDs loaded
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll finds users matching the filter
	FindAll(ctx context.Context, filter UserFilter) ([]User, error)

	// Save creates or updates a user and its role links
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter UserFilter) (int64, error)

	// ExistsByUsername checks if a user with the username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RoleFilter is the query specification for role lookups
type RoleFilter struct {
	shared.Filter
	EnabledOnly bool
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// FindByID finds a role by ID with permission codes loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by its code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindByIDs finds roles by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)

	// FindAll finds roles matching the filter
	FindAll(ctx context.Context, filter RoleFilter) ([]Role, error)

	// Save creates or updates a role and its permission links
	Save(ctx context.Context, role *Role) error

	// Delete removes a non-system role
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts roles matching the filter
	Count(ctx context.Context, filter RoleFilter) (int64, error)
}
