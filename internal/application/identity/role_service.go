package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/shared"
)

// RoleService manages roles and their permission grants. The permission table
// itself is static; roles only reference codes from it.
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

// Create creates a new role with an optional initial permission set
func (s *RoleService) Create(ctx context.Context, cmd CreateRoleCommand) (*identity.Role, error) {
	existing, err := s.roleRepo.FindByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role code is already taken")
	}

	role, err := identity.NewRole(cmd.Code, cmd.Name)
	if err != nil {
		return nil, err
	}
	if cmd.Description != "" {
		role.SetDescription(cmd.Description)
	}
	if len(cmd.Permissions) > 0 {
		if err := role.SetPermissions(cmd.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("code", role.Code),
		zap.String("role_id", role.ID.String()))

	return role, nil
}

// Update changes role fields and optionally replaces its permission set
func (s *RoleService) Update(ctx context.Context, roleID uuid.UUID, cmd UpdateRoleCommand) (*identity.Role, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error {
		if cmd.Name != nil {
			if err := r.SetName(*cmd.Name); err != nil {
				return err
			}
		}
		if cmd.Description != nil {
			r.SetDescription(*cmd.Description)
		}
		if cmd.Permissions != nil {
			if err := r.SetPermissions(cmd.Permissions); err != nil {
				return err
			}
		}
		return nil
	})
}

// GrantPermission grants a permission code to a role
func (s *RoleService) GrantPermission(ctx context.Context, roleID uuid.UUID, code string) (*identity.Role, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error {
		return r.GrantPermission(code)
	})
}

// RevokePermission revokes a permission code from a role
func (s *RoleService) RevokePermission(ctx context.Context, roleID uuid.UUID, code string) (*identity.Role, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error {
		return r.RevokePermission(code)
	})
}

// Enable enables a role
func (s *RoleService) Enable(ctx context.Context, roleID uuid.UUID) (*identity.Role, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error {
		return r.Enable()
	})
}

// Disable disables a role. Users keep the assignment but its permissions stop
// contributing to their tokens.
func (s *RoleService) Disable(ctx context.Context, roleID uuid.UUID) (*identity.Role, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error {
		return r.Disable()
	})
}

// Get returns a role by ID
func (s *RoleService) Get(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

// List returns roles matching the filter
func (s *RoleService) List(ctx context.Context, filter identity.RoleFilter) (*shared.Paginated[identity.Role], error) {
	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.roleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(roles, total, filter.Filter), nil
}

// Delete removes a non-system role
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return shared.ErrNotFound
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	return s.roleRepo.Delete(ctx, id)
}

// ListPermissions returns the static permission table
func (s *RoleService) ListPermissions() []identity.Permission {
	return identity.AllPermissions()
}

func (s *RoleService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*identity.Role) error,
) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, shared.ErrNotFound
	}
	if err := apply(role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}
