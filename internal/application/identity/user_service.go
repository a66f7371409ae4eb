package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/shared"
)

// UserService manages user accounts and their role assignments
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, logger: logger}
}

// Register creates a new user account
func (s *UserService) Register(ctx context.Context, cmd RegisterUserCommand) (*identity.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	var user *identity.User
	if cmd.Active {
		user, err = identity.NewActiveUser(cmd.Username, cmd.Password)
	} else {
		user, err = identity.NewUser(cmd.Username, cmd.Password)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Email != "" {
		if err := user.SetEmail(cmd.Email); err != nil {
			return nil, err
		}
	}
	if cmd.DisplayName != "" {
		if err := user.SetDisplayName(cmd.DisplayName); err != nil {
			return nil, err
		}
	}

	if len(cmd.RoleIDs) > 0 {
		if err := s.requireRoles(ctx, cmd.RoleIDs); err != nil {
			return nil, err
		}
		for _, roleID := range cmd.RoleIDs {
			if err := user.AssignRole(roleID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return user, nil
}

// Update changes profile fields of a user
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, cmd UpdateUserCommand) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		if cmd.Email != nil {
			if err := u.SetEmail(*cmd.Email); err != nil {
				return err
			}
		}
		if cmd.DisplayName != nil {
			if err := u.SetDisplayName(*cmd.DisplayName); err != nil {
				return err
			}
		}
		return nil
	})
}

// Activate activates a pending or deactivated user
func (s *UserService) Activate(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.Activate()
	})
}

// Deactivate deactivates a user
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.Deactivate()
	})
}

// Unlock clears a lockout before its duration has elapsed
func (s *UserService) Unlock(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.Unlock()
	})
}

// ResetPassword sets a new password without the old one (admin operation)
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.SetPassword(newPassword)
	})
}

// AssignRole adds a role to a user
func (s *UserService) AssignRole(ctx context.Context, userID, roleID uuid.UUID) (*identity.User, error) {
	if err := s.requireRoles(ctx, []uuid.UUID{roleID}); err != nil {
		return nil, err
	}
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.AssignRole(roleID)
	})
}

// RemoveRole removes a role from a user
func (s *UserService) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) (*identity.User, error) {
	return s.transition(ctx, userID, func(u *identity.User) error {
		return u.RemoveRole(roleID)
	})
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// List returns users matching the filter
func (s *UserService) List(ctx context.Context, filter identity.UserFilter) (*shared.Paginated[identity.User], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(users, total, filter.Filter), nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.ErrNotFound
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*identity.User) error,
) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) requireRoles(ctx context.Context, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(roles))
	for _, role := range roles {
		found[role.ID] = true
	}
	for _, id := range roleIDs {
		if !found[id] {
			return shared.NewDomainError("ROLE_NOT_FOUND", "Referenced role does not exist")
		}
	}
	return nil
}
