package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// Role groups permission codes for assignment to users
type Role struct {
	shared.BaseAggregateRoot
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:varchar(255)"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsEnabled    bool   `gorm:"not null;default:true"`
	Permissions  []string `gorm:"-"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// RolePermission links roles to permission codes
type RolePermission struct {
	RoleID         uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	PermissionCode string    `gorm:"type:varchar(100);not null;primaryKey"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (RolePermission) TableName() string {
	return "role_permissions"
}

// NewRole creates a new role with required fields
func NewRole(code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		IsSystemRole:      false,
		IsEnabled:         true,
		Permissions:       make([]string, 0),
	}, nil
}

// NewSystemRole creates a new system role (cannot be deleted)
func NewSystemRole(code, name string) (*Role, error) {
	role, err := NewRole(code, name)
	if err != nil {
		return nil, err
	}

	role.IsSystemRole = true
	return role, nil
}

// SetName sets the role name
func (r *Role) SetName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.touch()

	return nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.touch()
}

// Enable enables the role
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}

	r.IsEnabled = true
	r.touch()

	return nil
}

// Disable disables the role
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}

	r.IsEnabled = false
	r.touch()

	return nil
}

// GrantPermission grants a permission code to the role. The code must exist
// in the static permission table.
func (r *Role) GrantPermission(code string) error {
	if !IsKnownPermission(code) {
		return shared.NewDomainError("INVALID_PERMISSION", "Unknown permission code")
	}

	for _, p := range r.Permissions {
		if p == code {
			return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
		}
	}

	r.Permissions = append(r.Permissions, code)
	r.touch()

	return nil
}

// RevokePermission revokes a permission code from the role
func (r *Role) RevokePermission(code string) error {
	found := false
	newPermissions := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p != code {
			newPermissions = append(newPermissions, p)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("PERMISSION_NOT_FOUND", "Role does not have this permission")
	}

	r.Permissions = newPermissions
	r.touch()

	return nil
}

// SetPermissions sets all permission codes for the role (replaces existing)
func (r *Role) SetPermissions(codes []string) error {
	seen := make(map[string]bool)
	unique := make([]string, 0, len(codes))
	for _, code := range codes {
		if !IsKnownPermission(code) {
			return shared.NewDomainError("INVALID_PERMISSION", "Unknown permission code")
		}
		if !seen[code] {
			seen[code] = true
			unique = append(unique, code)
		}
	}

	r.Permissions = unique
	r.touch()

	return nil
}

// HasPermission checks if the role has a specific permission code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

// CanDelete returns true if the role can be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystemRole
}

func (r *Role) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) < 2 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must be at least 2 characters")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must start with a letter and contain only letters, numbers, and underscores")
	}

	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}

// Predefined system role codes
const (
	RoleCodeAdmin      = "ADMIN"
	RoleCodeManager    = "MANAGER"
	RoleCodeWarehouse  = "WAREHOUSE"
	RoleCodeTechnician = "TECHNICIAN"
	RoleCodeFrontDesk  = "FRONT_DESK"
)
