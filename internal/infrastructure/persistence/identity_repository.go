package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormUserRepository implements UserRepository using GORM. Role assignments
// live in the user_roles link table and are loaded into User.RoleIDs.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID with role IDs loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadRoleIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var user identity.User
	normalized := strings.ToLower(strings.TrimSpace(username))
	if err := r.db.WithContext(ctx).First(&user, "username = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadRoleIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll finds users matching the filter. Role IDs are not loaded for list
// queries.
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, error) {
	var users []identity.User
	query := applyFilter(r.userQuery(ctx, filter), filter.Filter)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user and replaces its role links
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if err := tx.Delete(&identity.UserRole{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if len(user.RoleIDs) == 0 {
			return nil
		}
		links := make([]identity.UserRole, 0, len(user.RoleIDs))
		now := time.Now()
		for _, roleID := range user.RoleIDs {
			links = append(links, identity.UserRole{
				UserID:    user.ID,
				RoleID:    roleID,
				CreatedAt: now,
			})
		}
		return tx.Create(&links).Error
	})
}

// Delete removes a user and its role links
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.UserRole{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&identity.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter identity.UserFilter) (int64, error) {
	var count int64
	if err := r.userQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUsername checks if a user with the username exists
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) loadRoleIDs(ctx context.Context, user *identity.User) error {
	var links []identity.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&links).Error; err != nil {
		return err
	}
	user.RoleIDs = make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		user.RoleIDs = append(user.RoleIDs, link.RoleID)
	}
	return nil
}

func (r *GormUserRepository) userQuery(ctx context.Context, filter identity.UserFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&identity.User{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR display_name ILIKE ?", pattern, pattern)
	}
	return query
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormRoleRepository implements RoleRepository using GORM. Permission grants
// live in the role_permissions link table and are loaded into
// Role.Permissions.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID with permission codes loaded
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByCode finds a role by its code
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var role identity.Role
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.WithContext(ctx).First(&role, "code = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByIDs finds roles by a set of IDs with permission codes loaded
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Role, error) {
	if len(ids) == 0 {
		return []identity.Role{}, nil
	}
	var roles []identity.Role
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	for i := range roles {
		if err := r.loadPermissions(ctx, &roles[i]); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// FindAll finds roles matching the filter with permission codes loaded
func (r *GormRoleRepository) FindAll(ctx context.Context, filter identity.RoleFilter) ([]identity.Role, error) {
	var roles []identity.Role
	query := applyFilter(r.roleQuery(ctx, filter), filter.Filter)
	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}
	for i := range roles {
		if err := r.loadPermissions(ctx, &roles[i]); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// Save creates or updates a role and replaces its permission links
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", role.ID).Error; err != nil {
			return err
		}
		if len(role.Permissions) == 0 {
			return nil
		}
		links := make([]identity.RolePermission, 0, len(role.Permissions))
		now := time.Now()
		for _, code := range role.Permissions {
			links = append(links, identity.RolePermission{
				RoleID:         role.ID,
				PermissionCode: code,
				CreatedAt:      now,
			})
		}
		return tx.Create(&links).Error
	})
}

// Delete removes a role and its permission links
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&identity.UserRole{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&identity.Role{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts roles matching the filter
func (r *GormRoleRepository) Count(ctx context.Context, filter identity.RoleFilter) (int64, error) {
	var count int64
	if err := r.roleQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRoleRepository) loadPermissions(ctx context.Context, role *identity.Role) error {
	var links []identity.RolePermission
	if err := r.db.WithContext(ctx).Where("role_id = ?", role.ID).Find(&links).Error; err != nil {
		return err
	}
	role.Permissions = make([]string, 0, len(links))
	for _, link := range links {
		role.Permissions = append(role.Permissions, link.PermissionCode)
	}
	return nil
}

func (r *GormRoleRepository) roleQuery(ctx context.Context, filter identity.RoleFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&identity.Role{})
	if filter.EnabledOnly {
		query = query.Where("is_enabled = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	return query
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
