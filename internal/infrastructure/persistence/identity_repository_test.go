package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/shared"
)

func newIdentityDB(t *testing.T) (*GormUserRepository, *GormRoleRepository) {
	db := newSQLiteDB(t,
		&identity.User{},
		&identity.UserRole{},
		&identity.Role{},
		&identity.RolePermission{},
	)
	return NewGormUserRepository(db), NewGormRoleRepository(db)
}

func TestGormUserRepository_SaveAndLoadRoleLinks(t *testing.T) {
	userRepo, roleRepo := newIdentityDB(t)
	ctx := context.Background()

	role, err := identity.NewRole("mechanic", "Mechanic")
	require.NoError(t, err)
	require.NoError(t, roleRepo.Save(ctx, role))

	user, err := identity.NewUser("alex", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, user.AssignRole(role.ID))
	require.NoError(t, userRepo.Save(ctx, user))

	loaded, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "alex", loaded.Username)
	assert.Equal(t, []uuid.UUID{role.ID}, loaded.RoleIDs)
}

func TestGormUserRepository_SaveReplacesRoleLinks(t *testing.T) {
	userRepo, roleRepo := newIdentityDB(t)
	ctx := context.Background()

	roleA, err := identity.NewRole("mechanic", "Mechanic")
	require.NoError(t, err)
	require.NoError(t, roleRepo.Save(ctx, roleA))
	roleB, err := identity.NewRole("clerk", "Rental Clerk")
	require.NoError(t, err)
	require.NoError(t, roleRepo.Save(ctx, roleB))

	user, err := identity.NewUser("alex", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, user.AssignRole(roleA.ID))
	require.NoError(t, userRepo.Save(ctx, user))

	user.RoleIDs = []uuid.UUID{roleB.ID}
	require.NoError(t, userRepo.Save(ctx, user))

	loaded, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []uuid.UUID{roleB.ID}, loaded.RoleIDs)
}

func TestGormUserRepository_Delete(t *testing.T) {
	userRepo, _ := newIdentityDB(t)
	ctx := context.Background()

	user, err := identity.NewUser("alex", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, user))

	require.NoError(t, userRepo.Delete(ctx, user.ID))

	loaded, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.ErrorIs(t, userRepo.Delete(ctx, user.ID), shared.ErrNotFound)
}

func TestGormUserRepository_ExistsByUsername(t *testing.T) {
	userRepo, _ := newIdentityDB(t)
	ctx := context.Background()

	user, err := identity.NewUser("alex", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, user))

	exists, err := userRepo.ExistsByUsername(ctx, "ALEX")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = userRepo.ExistsByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormRoleRepository_SaveAndLoadPermissions(t *testing.T) {
	_, roleRepo := newIdentityDB(t)
	ctx := context.Background()

	role, err := identity.NewRole("mechanic", "Mechanic")
	require.NoError(t, err)
	role.Permissions = []string{"repair_order:read", "repair_order:update"}
	require.NoError(t, roleRepo.Save(ctx, role))

	loaded, err := roleRepo.FindByCode(ctx, "mechanic")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.ElementsMatch(t, role.Permissions, loaded.Permissions)
}
