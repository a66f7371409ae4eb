package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser("Alex.Morgan", "secret1pass")

		require.NoError(t, err)
		assert.Equal(t, "alex.morgan", user.Username)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "secret1pass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret1pass"))
		assert.False(t, user.VerifyPassword("wrong1pass"))
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("ab", "secret1pass")
		require.Error(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, err := NewUser("alex", "short1")
		require.Error(t, err)

		_, err = NewUser("alex", "lettersonly")
		require.Error(t, err)

		_, err = NewUser("alex", "12345678")
		require.Error(t, err)
	})
}

func TestUser_PasswordChange(t *testing.T) {
	user, err := NewActiveUser("alex", "secret1pass")
	require.NoError(t, err)

	t.Run("requires correct current password", func(t *testing.T) {
		require.Error(t, user.ChangePassword("wrong1pass", "newsecret2"))
		require.NoError(t, user.ChangePassword("secret1pass", "newsecret2"))
		assert.True(t, user.VerifyPassword("newsecret2"))
	})
}

func TestUser_Lockout(t *testing.T) {
	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, err := NewActiveUser("alex", "secret1pass")
		require.NoError(t, err)

		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user, err := NewActiveUser("alex", "secret1pass")
		require.NoError(t, err)
		require.NoError(t, user.Lock(-time.Minute))

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("unlock resets failed attempts", func(t *testing.T) {
		user, err := NewActiveUser("alex", "secret1pass")
		require.NoError(t, err)
		require.NoError(t, user.Lock(time.Hour))
		require.NoError(t, user.Unlock())

		assert.Equal(t, 0, user.FailedAttempts)
		assert.True(t, user.CanLogin())
	})

	t.Run("success resets the counter", func(t *testing.T) {
		user, err := NewActiveUser("alex", "secret1pass")
		require.NoError(t, err)
		user.RecordLoginFailure(5, time.Hour)
		user.RecordLoginSuccess()

		assert.Equal(t, 0, user.FailedAttempts)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_Roles(t *testing.T) {
	user, err := NewActiveUser("alex", "secret1pass")
	require.NoError(t, err)

	roleID := uuid.New()
	require.NoError(t, user.AssignRole(roleID))
	assert.True(t, user.HasRole(roleID))

	require.Error(t, user.AssignRole(roleID))

	require.NoError(t, user.RemoveRole(roleID))
	assert.False(t, user.HasRole(roleID))
	require.Error(t, user.RemoveRole(roleID))
}

func TestRole_Permissions(t *testing.T) {
	role, err := NewRole("WAREHOUSE", "Warehouse Staff")
	require.NoError(t, err)

	t.Run("grants known permission codes", func(t *testing.T) {
		require.NoError(t, role.GrantPermission("inventory:adjust"))
		assert.True(t, role.HasPermission("inventory:adjust"))
	})

	t.Run("rejects unknown codes", func(t *testing.T) {
		require.Error(t, role.GrantPermission("spaceship:launch"))
	})

	t.Run("rejects duplicate grants", func(t *testing.T) {
		require.Error(t, role.GrantPermission("inventory:adjust"))
	})

	t.Run("revoke removes the code", func(t *testing.T) {
		require.NoError(t, role.RevokePermission("inventory:adjust"))
		assert.False(t, role.HasPermission("inventory:adjust"))
	})
}

func TestPermissionTable(t *testing.T) {
	t.Run("lookup round-trips", func(t *testing.T) {
		p, ok := LookupPermission("goods_receipt:post")
		require.True(t, ok)
		assert.Equal(t, "goods_receipt", p.Resource)
		assert.Equal(t, "post", p.Action)
	})

	t.Run("table is sorted and non-empty", func(t *testing.T) {
		all := AllPermissions()
		require.NotEmpty(t, all)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].Code, all[i].Code)
		}
	})

	t.Run("resource listing filters", func(t *testing.T) {
		perms := PermissionsForResource("asset")
		require.NotEmpty(t, perms)
		for _, p := range perms {
			assert.Equal(t, "asset", p.Resource)
		}
	})
}
